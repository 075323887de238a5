package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/notify"
)

type backgroundCmd struct {
	*root
	fs            *flag.FlagSet
	path          string
	image         string
	capture       string
	fromClipboard bool
	fit           string
	clear         bool
	reset         bool
	scale         float64
	rotate        float64
	offsetX       float64
	offsetY       float64
}

func (b *backgroundCmd) FlagSet() *flag.FlagSet { return b.fs }

func (b *backgroundCmd) Template() string { return "background.txt" }

func parseBackgroundCmd(args []string, r *root) (*backgroundCmd, error) {
	fs := flag.NewFlagSet("background", flag.ExitOnError)
	cmd := &backgroundCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	addBackgroundFlags(fs, &cmd.image, &cmd.capture, &cmd.fromClipboard, &cmd.fit)
	fs.BoolVar(&cmd.clear, "clear", false, "remove the background image")
	fs.BoolVar(&cmd.reset, "reset", false, "reset rotation, scale and offset")
	fs.Float64Var(&cmd.scale, "scale", 0, "background scale factor")
	fs.Float64Var(&cmd.rotate, "rotate", 0, "background rotation in degrees")
	fs.Float64Var(&cmd.offsetX, "offset-x", 0, "background horizontal offset")
	fs.Float64Var(&cmd.offsetY, "offset-y", 0, "background vertical offset")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	if err := checkBackgroundSources(cmd, cmd.image, cmd.capture, cmd.fromClipboard); err != nil {
		return nil, err
	}
	if cmd.clear && cmd.hasSource() {
		return nil, usageErrorf(cmd, "-clear cannot be combined with a new background")
	}
	if _, err := parseSize(cmd.fit); err != nil {
		return nil, usageErrorf(cmd, "-fit: %v", err)
	}
	return cmd, nil
}

func (b *backgroundCmd) hasSource() bool {
	return b.image != "" || b.capture != "" || b.fromClipboard
}

func (b *backgroundCmd) Run() error {
	w, err := b.root.openWorkspace(b.path, false)
	if err != nil {
		return err
	}
	defer w.Close()
	st := w.store
	if st.Project().Mode == annotation.ModeMap {
		return fmt.Errorf("%s is a map project and has no background", b.path)
	}
	switch {
	case b.clear:
		st.SetBackground("", 0, 0)
	case b.hasSource():
		asset, err := loadBackground(context.Background(), b.image, b.capture, b.fromClipboard)
		if err != nil {
			b.root.notifyFailure(notify.EventAsset, err)
			return err
		}
		st.SetBackground(asset.DataURI, asset.Width, asset.Height)
	}
	if b.reset {
		w.session.ResetBackground()
	}
	settings := st.Project().BackgroundSettings
	b.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			settings.Scale = b.scale
		case "rotate":
			settings.Rotation = b.rotate
		case "offset-x":
			settings.OffsetX = b.offsetX
		case "offset-y":
			settings.OffsetY = b.offsetY
		}
	})
	st.SetBackgroundSettings(settings)
	if size, _ := parseSize(b.fit); size.W > 0 {
		st.FitBackground(size)
	}
	return w.Save()
}
