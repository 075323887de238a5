package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/pinmark/internal/store"
)

type layerCmd struct {
	*root
	fs    *flag.FlagSet
	path  string
	op    string
	ref   string
	index int
}

func (l *layerCmd) FlagSet() *flag.FlagSet { return l.fs }

func (l *layerCmd) Template() string { return "layer.txt" }

var layerOps = map[string]int{
	"show": 0, "hide": 0, "lock": 0, "unlock": 0,
	"up": 0, "down": 0, "delete": 0, "move": 1,
}

func parseLayerCmd(args []string, r *root) (*layerCmd, error) {
	fs := flag.NewFlagSet("layer", flag.ExitOnError)
	cmd := &layerCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 3 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	cmd.op = strings.ToLower(fs.Arg(1))
	cmd.ref = fs.Arg(2)
	extra, ok := layerOps[cmd.op]
	if !ok {
		return nil, usageErrorf(cmd, "unknown layer operation %q", fs.Arg(1))
	}
	if fs.NArg() != 3+extra {
		return nil, usageErrorf(cmd, "%s takes %d arguments after the annotation", cmd.op, extra)
	}
	if cmd.op == "move" {
		n, err := strconv.Atoi(fs.Arg(3))
		if err != nil || n < 0 {
			return nil, usageErrorf(cmd, "invalid index %q", fs.Arg(3))
		}
		cmd.index = n
	}
	return cmd, nil
}

func (l *layerCmd) Run() error {
	w, err := l.root.openWorkspace(l.path, false)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := applyLayerOp(w.store, l.op, l.ref, l.index); err != nil {
		return err
	}
	return w.Save()
}

// applyLayerOp runs one layers panel action. Indexes count paint order
// from the bottom.
func applyLayerOp(st *store.Store, op, ref string, index int) error {
	id, err := resolveRef(st, ref)
	if err != nil {
		return err
	}
	switch op {
	case "show", "hide":
		if st.IsVisible(id) != (op == "show") {
			st.ToggleVisible(id)
		}
	case "lock", "unlock":
		if st.IsLocked(id) != (op == "lock") {
			st.ToggleLocked(id)
		}
	case "up":
		st.Reorder(id, store.Up)
	case "down":
		st.Reorder(id, store.Down)
	case "move":
		st.MoveTo(id, index)
	case "delete":
		st.Delete(id)
	default:
		return fmt.Errorf("unknown layer operation %q", op)
	}
	return nil
}
