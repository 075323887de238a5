package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/clipboard"
	"github.com/example/pinmark/internal/geom"
	"github.com/example/pinmark/internal/ingest"
	"github.com/example/pinmark/internal/notify"
)

var captureScreenFn = ingest.Capture

type newCmd struct {
	*root
	fs            *flag.FlagSet
	path          string
	name          string
	mapMode       bool
	image         string
	capture       string
	fromClipboard bool
	fit           string
	force         bool
}

func (n *newCmd) FlagSet() *flag.FlagSet { return n.fs }

func (n *newCmd) Template() string { return "new.txt" }

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	cmd := &newCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.name, "name", "", "project name")
	fs.BoolVar(&cmd.mapMode, "map", false, "create a map project instead of an image canvas")
	addBackgroundFlags(fs, &cmd.image, &cmd.capture, &cmd.fromClipboard, &cmd.fit)
	fs.BoolVar(&cmd.force, "force", false, "overwrite an existing project file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	if cmd.mapMode && cmd.hasBackground() {
		return nil, usageErrorf(cmd, "map projects do not take a background image")
	}
	if err := checkBackgroundSources(cmd, cmd.image, cmd.capture, cmd.fromClipboard); err != nil {
		return nil, err
	}
	if _, err := parseSize(cmd.fit); err != nil {
		return nil, usageErrorf(cmd, "-fit: %v", err)
	}
	return cmd, nil
}

func (n *newCmd) hasBackground() bool {
	return n.image != "" || n.capture != "" || n.fromClipboard
}

func (n *newCmd) Run() error {
	if !n.force {
		if _, err := os.Stat(n.path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", n.path)
		}
	}
	if err := os.Remove(n.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	w, err := n.root.openWorkspace(n.path, true)
	if err != nil {
		return err
	}
	defer w.Close()
	st := w.store
	if n.name != "" {
		st.SetName(n.name)
	}
	st.SetDefaultPointSettings(n.root.pointSettings())
	if n.mapMode {
		st.SetMode(annotation.ModeMap)
	}
	if n.hasBackground() {
		asset, err := loadBackground(context.Background(), n.image, n.capture, n.fromClipboard)
		if err != nil {
			n.root.notifyFailure(notify.EventAsset, err)
			return err
		}
		st.SetBackground(asset.DataURI, asset.Width, asset.Height)
		size, _ := parseSize(n.fit)
		if size.W > 0 {
			st.FitBackground(size)
		}
	}
	if err := w.Save(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "created %s (%s)\n", n.path, st.Project().ID)
	return nil
}

func (r *root) pointSettings() annotation.PointSettings {
	ps := annotation.DefaultPointSettings()
	if r == nil || r.config == nil {
		return ps
	}
	if r.config.Point.Size > 0 {
		ps.Size = r.config.Point.Size
	}
	if r.config.Point.Color != "" {
		ps.Color = r.config.Point.Color
	}
	return ps
}

func addBackgroundFlags(fs *flag.FlagSet, image, capture *string, fromClipboard *bool, fit *string) {
	fs.StringVar(image, "image", "", "background image file (png, jpeg, gif or webp)")
	fs.StringVar(capture, "capture", "", "capture the background from the screen: screen, region or x11")
	fs.BoolVar(fromClipboard, "from-clipboard", false, "use the image on the clipboard as the background")
	fs.StringVar(fit, "fit", "", "fit the background into a WxH viewport")
}

func checkBackgroundSources(of HelpData, image, capture string, fromClipboard bool) error {
	n := 0
	for _, set := range []bool{image != "", capture != "", fromClipboard} {
		if set {
			n++
		}
	}
	if n > 1 {
		return usageErrorf(of, "-image, -capture and -from-clipboard are mutually exclusive")
	}
	if capture != "" {
		if _, err := ingest.ParseSource(capture); err != nil {
			return usageErrorf(of, "-capture: %v", err)
		}
	}
	return nil
}

func loadBackground(ctx context.Context, image, capture string, fromClipboard bool) (ingest.Asset, error) {
	switch {
	case image != "":
		return ingest.Load(image)
	case fromClipboard:
		a, err := clipboard.ReadAsset()
		if err != nil {
			return ingest.Asset{}, fmt.Errorf("read clipboard: %w", err)
		}
		return a, nil
	}
	src, err := ingest.ParseSource(capture)
	if err != nil {
		return ingest.Asset{}, err
	}
	img, err := captureScreenFn(ctx, src)
	if err != nil {
		return ingest.Asset{}, fmt.Errorf("failed to capture screen: %w", err)
	}
	return ingest.FromImage(img)
}

// parseSize reads "WxH". An empty string is the zero size.
func parseSize(s string) (geom.Size, error) {
	if s == "" {
		return geom.Size{}, nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Size{}, fmt.Errorf("size %q is not WxH", s)
	}
	w, err := strconv.ParseFloat(ws, 64)
	if err != nil {
		return geom.Size{}, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.ParseFloat(hs, 64)
	if err != nil {
		return geom.Size{}, fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return geom.Size{}, fmt.Errorf("size %q must be positive", s)
	}
	return geom.Size{W: w, H: h}, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
