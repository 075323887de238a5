package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/pinmark/internal/export"
	"github.com/example/pinmark/internal/notify"
)

type importCmd struct {
	*root
	fs     *flag.FlagSet
	input  string
	path   string
	create bool
}

func (i *importCmd) FlagSet() *flag.FlagSet { return i.fs }

func (i *importCmd) Template() string { return "import.txt" }

func parseImportCmd(args []string, r *root) (*importCmd, error) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	cmd := &importCmd{root: r, fs: fs, create: true}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.create, "create", true, "create the project file when it does not exist")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, &UsageError{of: cmd}
	}
	cmd.input, cmd.path = fs.Arg(0), fs.Arg(1)
	return cmd, nil
}

func (i *importCmd) Run() error {
	err := i.run()
	if err != nil {
		i.root.notifyFailure(notify.EventImport, err)
	}
	return err
}

func (i *importCmd) run() error {
	f, err := os.Open(i.input)
	if err != nil {
		return fmt.Errorf("open %s: %w", i.input, err)
	}
	p, err := export.Extract(f)
	closeWithLog(i.input, f)
	if err != nil {
		if errors.Is(err, export.ErrNoDataBlock) {
			return fmt.Errorf("%s was not exported by pinmark: %w", i.input, err)
		}
		return fmt.Errorf("%s: %w", i.input, err)
	}
	w, err := i.root.openWorkspace(i.path, i.create)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.store.Import(p); err != nil {
		return err
	}
	if err := w.Save(); err != nil {
		return err
	}
	i.root.notifyImport(p.Name)
	fmt.Fprintf(os.Stderr, "imported %q into %s\n", p.Name, i.path)
	return nil
}
