package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/clipboard"
	"github.com/example/pinmark/internal/export"
	"github.com/example/pinmark/internal/notify"
	"github.com/example/pinmark/internal/render"
)

var copyImageFn = clipboard.WriteImage

type exportCmd struct {
	*root
	fs     *flag.FlagSet
	path   string
	output string
	format string
	shadow bool
	copy   bool
}

func (e *exportCmd) FlagSet() *flag.FlagSet { return e.fs }

func (e *exportCmd) Template() string { return "export.txt" }

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cmd := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.output, "o", "", "output file, - for stdout")
	fs.StringVar(&cmd.format, "format", "", "html or png (default from the output extension)")
	fs.BoolVar(&cmd.shadow, "shadow", false, "add a drop shadow to png exports")
	fs.BoolVar(&cmd.copy, "copy", false, "copy the png export to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	if cmd.output == "" {
		cmd.output = strings.TrimSuffix(cmd.path, filepath.Ext(cmd.path)) + ".html"
	}
	if cmd.format == "" {
		cmd.format = formatFor(cmd.output)
	}
	switch cmd.format {
	case "html", "png":
	case "":
		return nil, usageErrorf(cmd, "cannot tell the format of %q, use -format", cmd.output)
	default:
		return nil, usageErrorf(cmd, "unknown format %q", cmd.format)
	}
	if cmd.copy && cmd.format != "png" {
		return nil, usageErrorf(cmd, "-copy needs png output")
	}
	return cmd, nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "html"
	case ".png":
		return "png"
	}
	return ""
}

func (e *exportCmd) Run() error {
	w, err := e.root.openWorkspace(e.path, false)
	if err != nil {
		return err
	}
	defer w.Close()
	p := w.store.Project()
	var (
		buf     bytes.Buffer
		preview image.Image
	)
	switch e.format {
	case "html":
		opts := export.Options{}
		if e.root != nil && e.root.config != nil {
			opts.TileURL = e.root.config.Export.TileURL
		}
		err = export.HTML(&buf, p, w.store.IsVisible, opts)
	case "png":
		preview, err = e.raster(p, w.store.IsVisible)
		if err == nil {
			err = png.Encode(&buf, preview)
		}
	}
	if err != nil {
		e.root.notifyFailure(notify.EventExport, err)
		return err
	}
	if err := writeOutput(e.output, buf.Bytes()); err != nil {
		e.root.notifyFailure(notify.EventExport, err)
		return err
	}
	if e.copy {
		if err := copyImageFn(preview); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	if e.output != "-" {
		e.root.notifyExport(e.output, preview)
		fmt.Fprintf(os.Stderr, "exported %s\n", e.output)
	}
	return nil
}

func (e *exportCmd) raster(p *annotation.Project, visible func(string) bool) (*image.RGBA, error) {
	img, err := export.Image(p, visible)
	if err != nil {
		return nil, err
	}
	shadow := e.shadow
	if !e.flagSet("shadow") && e.root != nil && e.root.config != nil {
		shadow = e.root.config.Export.Shadow
	}
	if shadow {
		img = render.ApplyShadow(img, render.DefaultShadowOptions()).Image
	}
	return img, nil
}

func (e *exportCmd) flagSet(name string) bool {
	found := false
	e.fs.Visit(func(f *flag.Flag) { found = found || f.Name == name })
	return found
}

func writeOutput(path string, data []byte) error {
	var out io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer closeWithLog(path, f)
		out = f
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
