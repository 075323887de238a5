package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/pinmark/internal/annotation"
	"github.com/example/pinmark/internal/appstate"
	"github.com/example/pinmark/internal/geom"
)

type addCmd struct {
	*root
	fs      *flag.FlagSet
	path    string
	tool    appstate.Tool
	coords  []float64
	label   string
	content string
	color   string
	size    float64
	stroke  string
	fill    string
	width   float64
	bold    bool
}

func (a *addCmd) FlagSet() *flag.FlagSet { return a.fs }

func (a *addCmd) Template() string { return "add.txt" }

// coordCounts lists the accepted number of coordinates per tool.
var coordCounts = map[appstate.Tool][]int{
	appstate.ToolPoint:     {2},
	appstate.ToolText:      {2, 4},
	appstate.ToolRectangle: {4},
	appstate.ToolCircle:    {4},
	appstate.ToolLine:      {4},
	appstate.ToolArrow:     {4},
}

func parseAddCmd(args []string, r *root) (*addCmd, error) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	cmd := &addCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.label, "label", "", "label shown with the annotation")
	fs.StringVar(&cmd.content, "content", "", "text note content")
	fs.StringVar(&cmd.color, "color", "", "pin or text color")
	fs.Float64Var(&cmd.size, "size", 0, "pin diameter or text font size")
	fs.StringVar(&cmd.stroke, "stroke", "", "shape stroke color")
	fs.StringVar(&cmd.fill, "fill", "", "shape fill color")
	fs.Float64Var(&cmd.width, "width", 0, "shape stroke width")
	fs.BoolVar(&cmd.bold, "bold", false, "bold text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	name := strings.ToLower(fs.Arg(1))
	if name == "rect" {
		name = "rectangle"
	}
	tool, ok := appstate.ParseTool(name)
	if !ok || tool == appstate.ToolSelect {
		return nil, usageErrorf(cmd, "unknown annotation kind %q", fs.Arg(1))
	}
	cmd.tool = tool
	coords, err := parseFloats(fs.Args()[2:])
	if err != nil {
		return nil, usageErrorf(cmd, "%v", err)
	}
	valid := false
	for _, n := range coordCounts[tool] {
		valid = valid || len(coords) == n
	}
	if !valid {
		return nil, usageErrorf(cmd, "%s takes %v coordinates, got %d", tool, coordCounts[tool], len(coords))
	}
	cmd.coords = coords
	return cmd, nil
}

func (a *addCmd) Run() error {
	w, err := a.root.openWorkspace(a.path, false)
	if err != nil {
		return err
	}
	defer w.Close()
	id, err := a.apply(w.session)
	if err != nil {
		return err
	}
	if err := w.Save(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, id)
	return nil
}

// apply drives the session the way pointer input would and patches the
// created annotation with the flag values.
func (a *addCmd) apply(s *appstate.Session) (string, error) {
	st := s.Store()
	p := st.Project()
	before := len(p.Annotations)
	s.SetTool(a.tool)
	c := a.coords
	switch {
	case p.Mode == annotation.ModeMap:
		if a.tool != appstate.ToolPoint {
			return "", fmt.Errorf("map projects only take points")
		}
		s.MapClick(annotation.LatLng{Lat: c[0], Lng: c[1]})
	case len(c) == 2:
		s.Click(geom.Pt(c[0], c[1]))
	default:
		s.Drag(geom.Pt(c[0], c[1]), geom.Pt(c[2], c[3]))
	}
	if a.tool == appstate.ToolText && s.EditingID() != "" {
		s.Type(a.content)
		s.CommitText()
	}
	if len(st.Project().Annotations) == before {
		if p.Mode == annotation.ModeCanvas && p.BackgroundImage == "" {
			return "", fmt.Errorf("set a background image before adding annotations")
		}
		return "", fmt.Errorf("%s is too small to create", a.tool)
	}
	id := st.Selected()
	if patch, ok := a.patch(); ok {
		st.Update(id, patch)
	}
	return id, nil
}

func (a *addCmd) patch() (annotation.Patch, bool) {
	var patch annotation.Patch
	set := false
	a.fs.Visit(func(f *flag.Flag) {
		set = true
		switch f.Name {
		case "label":
			patch.Label = annotation.Ptr(a.label)
		case "color":
			if a.tool == appstate.ToolText {
				patch.TextColor = annotation.Ptr(a.color)
			} else {
				patch.Color = annotation.Ptr(a.color)
			}
		case "size":
			if a.tool == appstate.ToolText {
				patch.FontSize = annotation.Ptr(a.size)
			} else {
				patch.Size = annotation.Ptr(a.size)
			}
		case "stroke":
			patch.StrokeColor = annotation.Ptr(a.stroke)
		case "fill":
			patch.FillColor = annotation.Ptr(a.fill)
		case "width":
			patch.StrokeWidth = annotation.Ptr(a.width)
		case "bold":
			weight := annotation.FontNormal
			if a.bold {
				weight = annotation.FontBold
			}
			patch.FontWeight = &weight
		default:
			// content is typed through the session
		}
	})
	return patch, set
}
