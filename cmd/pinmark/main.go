package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/example/pinmark/internal/config"
	"github.com/example/pinmark/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	configPath   string
	storagePath  string
	exportAlerts bool
	importAlerts bool
	assetAlerts  bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:       flag.NewFlagSet("pinmark", flag.ExitOnError),
		program:  "pinmark",
		notifier: notify.New(notify.LoadPreferences()),
		config:   config.New(),
	}
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "configuration file (rc or yaml)")
	r.fs.StringVar(&r.storagePath, "storage", "", "snapshot database used for autosave and restore")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", false, "show a desktop notification after exporting")
	r.fs.BoolVar(&r.importAlerts, "notify-import", false, "show a desktop notification after importing")
	r.fs.BoolVar(&r.assetAlerts, "notify-asset", true, "show a desktop notification when an image cannot be added")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadConfig applies precedence: CLI > environment > config file > default.
func (r *root) loadConfig() {
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["storage"] {
		cfg.Storage = r.storagePath
	}
	if set["notify-export"] {
		cfg.Notify.Export = r.exportAlerts
	}
	if set["notify-import"] {
		cfg.Notify.Import = r.importAlerts
	}
	if set["notify-asset"] {
		cfg.Notify.Asset = r.assetAlerts
	}
	r.config = cfg
	if r.notifier != nil {
		r.notifier.Enable(notify.EventExport, cfg.Notify.Export)
		r.notifier.Enable(notify.EventImport, cfg.Notify.Import)
		r.notifier.Enable(notify.EventAsset, cfg.Notify.Asset)
	}
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.loadConfig()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "new":
		cmd, err = parseNewCmd(subArgs, r)
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "background":
		cmd, err = parseBackgroundCmd(subArgs, r)
	case "add":
		cmd, err = parseAddCmd(subArgs, r)
	case "attach":
		cmd, err = parseAttachCmd(subArgs, r)
	case "list":
		cmd, err = parseListCmd(subArgs, r)
	case "layer":
		cmd, err = parseLayerCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "import":
		cmd, err = parseImportCmd(subArgs, r)
	case "search":
		cmd, err = parseSearchCmd(subArgs, r)
	case "restore":
		cmd, err = parseRestoreCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifyExport(path string, preview image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Exported(path, preview)
}

func (r *root) notifyImport(name string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Imported(name)
}

func (r *root) notifyFailure(event notify.Event, err error) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Failed(event, err)
}
