package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of  HelpData
	msg string
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	if e.msg != "" {
		return e.msg + "\n\n" + help
	}
	return help
}

func usageErrorf(of HelpData, format string, args ...any) *UsageError {
	return &UsageError{of: of, msg: fmt.Sprintf(format, args...)}
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

func usageFunc(of HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: of}).Error())
	}
}

func (r *root) Template() string { return "root.txt" }

func (v *versionCmd) Template() string { return "version.txt" }

func (v *versionCmd) Program() string { return v.r.program }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }
