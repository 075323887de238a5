package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/pinmark/internal/appstate"
	"github.com/example/pinmark/internal/theme"
)

type editCmd struct {
	*root
	fs     *flag.FlagSet
	path   string
	create bool
}

func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func (e *editCmd) Template() string { return "edit.txt" }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	cmd := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.create, "create", false, "start a new project when the file does not exist")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	return cmd, nil
}

func (e *editCmd) Run() error {
	w, err := e.root.openWorkspace(e.path, e.create)
	if err != nil {
		return err
	}
	defer w.Close()
	if e.create {
		w.store.SetDefaultPointSettings(e.root.pointSettings())
	}
	th, err := theme.NewLoader().Load(e.root.config.Theme)
	if err != nil {
		log.Printf("theme: %v", err)
		th = theme.Default()
	}
	title := fmt.Sprintf("Pinmark - %s", filepath.Base(e.path))
	win := appstate.NewWindow(w.session,
		appstate.WithTitle(title),
		appstate.WithTheme(th),
		appstate.WithOnSave(w.Save),
		appstate.WithOnClose(func() {
			if err := w.Save(); err != nil {
				log.Printf("save on close: %v", err)
				return
			}
			fmt.Fprintf(os.Stderr, "saved %s\n", e.path)
		}),
	)
	win.Run()
	return nil
}
