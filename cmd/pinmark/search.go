package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/geocode"
)

type geocoder interface {
	Search(ctx context.Context, query string) (geocode.Result, error)
}

var newGeocoder = func(endpoint string) geocoder {
	return geocode.NewNominatim(endpoint, "pinmark/"+version)
}

type searchCmd struct {
	*root
	fs       *flag.FlagSet
	path     string
	query    string
	endpoint string
	timeout  time.Duration
}

func (s *searchCmd) FlagSet() *flag.FlagSet { return s.fs }

func (s *searchCmd) Template() string { return "search.txt" }

func parseSearchCmd(args []string, r *root) (*searchCmd, error) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	cmd := &searchCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.endpoint, "endpoint", geocode.DefaultEndpoint, "geocoding service search URL")
	fs.DurationVar(&cmd.timeout, "timeout", 10*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	cmd.query = strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
	if cmd.query == "" {
		return nil, usageErrorf(cmd, "empty search query")
	}
	return cmd, nil
}

func (s *searchCmd) Run() error {
	w, err := s.root.openWorkspace(s.path, false)
	if err != nil {
		return err
	}
	defer w.Close()
	if w.store.Project().Mode != annotation.ModeMap {
		return fmt.Errorf("%s is not a map project", s.path)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	res, err := newGeocoder(s.endpoint).Search(ctx, s.query)
	if err != nil {
		return fmt.Errorf("search %q: %w", s.query, err)
	}
	w.store.SetMapView(res.LatLng, geocode.SearchZoom)
	if err := w.Save(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s (%.5f, %.5f)\n", res.Name, res.LatLng.Lat, res.LatLng.Lng)
	return nil
}
