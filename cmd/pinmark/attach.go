package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/ingest"
	"github.com/example/pinmark/internal/notify"
)

type attachCmd struct {
	*root
	fs     *flag.FlagSet
	path   string
	ref    string
	files  []string
	remove int
}

func (a *attachCmd) FlagSet() *flag.FlagSet { return a.fs }

func (a *attachCmd) Template() string { return "attach.txt" }

func parseAttachCmd(args []string, r *root) (*attachCmd, error) {
	fs := flag.NewFlagSet("attach", flag.ExitOnError)
	cmd := &attachCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.IntVar(&cmd.remove, "remove", 0, "remove the Nth attached image (1-based) instead of adding")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path, cmd.ref = fs.Arg(0), fs.Arg(1)
	cmd.files = fs.Args()[2:]
	switch {
	case cmd.remove < 0:
		return nil, usageErrorf(cmd, "-remove must be positive")
	case cmd.remove > 0 && len(cmd.files) > 0:
		return nil, usageErrorf(cmd, "-remove takes no image files")
	case cmd.remove == 0 && len(cmd.files) == 0:
		return nil, usageErrorf(cmd, "no image files given")
	}
	return cmd, nil
}

func (r *root) compressConfig() ingest.CompressConfig {
	cfg := ingest.DefaultCompressConfig()
	if r == nil || r.config == nil {
		return cfg
	}
	cfg.MaxWidth = r.config.Image.MaxWidth
	cfg.MaxHeight = r.config.Image.MaxHeight
	if r.config.Image.Quality > 0 {
		cfg.Quality = r.config.Image.Quality
	}
	return cfg
}

func (a *attachCmd) Run() error {
	w, err := a.root.openWorkspace(a.path, false)
	if err != nil {
		return err
	}
	defer w.Close()
	st := w.store
	id, err := resolveRef(st, a.ref)
	if err != nil {
		return err
	}
	if _, ok := st.Find(id).(*annotation.Point); !ok {
		return fmt.Errorf("%s is not a point", a.ref)
	}
	if a.remove > 0 {
		if !st.RemoveImage(id, a.remove-1) {
			return fmt.Errorf("%s has no image %d", a.ref, a.remove)
		}
		return w.Save()
	}
	uris, err := ingest.CompressFiles(context.Background(), a.files, a.root.compressConfig())
	if err != nil {
		err = fmt.Errorf("attach images: %w", err)
		a.root.notifyFailure(notify.EventAsset, err)
		return err
	}
	st.AttachImages(id, uris)
	if err := w.Save(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s: %d images attached\n", id, len(uris))
	return nil
}
