package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/store"
)

type listCmd struct {
	*root
	fs     *flag.FlagSet
	path   string
	asJSON bool
	out    io.Writer
}

func (l *listCmd) FlagSet() *flag.FlagSet { return l.fs }

func (l *listCmd) Template() string { return "list.txt" }

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cmd := &listCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.asJSON, "json", false, "print the layers as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	return cmd, nil
}

// layer is one row of the layers panel, topmost first.
type layer struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
	Images  int    `json:"images,omitempty"`
}

func layers(st *store.Store) []layer {
	list := st.Annotations()
	out := make([]layer, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		a := list[i]
		id := a.Base().ID
		l := layer{ID: id, Title: layerTitle(a), Visible: st.IsVisible(id), Locked: st.IsLocked(id)}
		switch v := a.(type) {
		case *annotation.Point:
			l.Kind = "point"
			l.Images = len(v.AttachedImageURLs)
		case *annotation.TextNote:
			l.Kind = "text"
		case *annotation.Shape:
			l.Kind = string(v.ShapeType)
		}
		out = append(out, l)
	}
	return out
}

func layerTitle(a annotation.Annotation) string {
	if label := a.Base().Label; label != "" {
		return label
	}
	switch v := a.(type) {
	case *annotation.Point:
		return "Point " + strconv.Itoa(v.Number)
	case *annotation.TextNote:
		if v.Content != "" {
			line, _, _ := strings.Cut(v.Content, "\n")
			if len(line) > 30 {
				line = line[:30] + "..."
			}
			return line
		}
		return "Text note"
	case *annotation.Shape:
		if v.ShapeType == "" {
			return "Shape"
		}
		return strings.ToUpper(string(v.ShapeType[:1])) + string(v.ShapeType[1:])
	}
	return ""
}

func (l *listCmd) Run() error {
	w, err := l.root.openWorkspace(l.path, false)
	if err != nil {
		return err
	}
	defer w.Close()
	rows := layers(w.store)
	if l.asJSON {
		data, err := marshalCompact(rows)
		if err != nil {
			return err
		}
		_, err = l.out.Write(data)
		return err
	}
	p := w.store.Project()
	fmt.Fprintf(l.out, "%s (%s, %d annotations)\n", p.Name, p.Mode, len(rows))
	tw := tabwriter.NewWriter(l.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tTITLE\tVISIBLE\tLOCKED\tIMAGES")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", r.ID, r.Kind, r.Title, yesNo(r.Visible), yesNo(r.Locked), r.Images)
	}
	return tw.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// resolveRef finds an annotation by id, unique id prefix or point number
// written as #N.
func resolveRef(st *store.Store, ref string) (string, error) {
	if n, ok := strings.CutPrefix(ref, "#"); ok {
		num, err := strconv.Atoi(n)
		if err != nil {
			return "", fmt.Errorf("invalid point number %q", ref)
		}
		for _, a := range st.Annotations() {
			if p, ok := a.(*annotation.Point); ok && p.Number == num {
				return p.ID, nil
			}
		}
		return "", fmt.Errorf("no point numbered %d", num)
	}
	var match string
	for _, a := range st.Annotations() {
		id := a.Base().ID
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%q matches more than one annotation", ref)
			}
			match = id
		}
	}
	if match == "" || ref == "" {
		return "", fmt.Errorf("no annotation %q", ref)
	}
	return match, nil
}
