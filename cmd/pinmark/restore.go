package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/example/pinmark/internal/storage"
)

type restoreCmd struct {
	*root
	fs     *flag.FlagSet
	slot   string
	list   bool
	remove bool
	output string
}

func (r *restoreCmd) FlagSet() *flag.FlagSet { return r.fs }

func (r *restoreCmd) Template() string { return "restore.txt" }

func parseRestoreCmd(args []string, rt *root) (*restoreCmd, error) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	cmd := &restoreCmd{root: rt, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.slot, "slot", storage.AutosaveSlot, "snapshot slot to restore")
	fs.BoolVar(&cmd.list, "list", false, "list stored snapshots")
	fs.BoolVar(&cmd.remove, "delete", false, "delete the snapshot slot")
	fs.StringVar(&cmd.output, "o", "", "project file to write")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if !cmd.list && !cmd.remove && cmd.output == "" {
		return nil, usageErrorf(cmd, "-o is required to restore a snapshot")
	}
	return cmd, nil
}

func (r *restoreCmd) Run() error {
	if r.root == nil || r.root.config == nil || r.root.config.Storage == "" {
		return errors.New("no snapshot storage configured")
	}
	db, err := storage.Open(r.root.config.Storage)
	if err != nil {
		return err
	}
	defer closeWithLog("storage", db)
	ctx := context.Background()
	switch {
	case r.list:
		entries, err := db.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SLOT\tPROJECT\tNAME\tUPDATED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Slot, e.ProjectID, e.Name, e.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	case r.remove:
		return db.Delete(ctx, r.slot)
	}
	snap, err := db.Load(ctx, r.slot)
	if err != nil {
		return fmt.Errorf("slot %q: %w", r.slot, err)
	}
	if err := writeProjectFile(r.output, snap); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "restored %q into %s\n", snap.Project.Name, r.output)
	return nil
}
