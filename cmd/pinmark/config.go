package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pinmark/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Template() string { return "config.txt" }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Print(c.root.config.String())
		return nil
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	path := config.NewLoader(version, c.root.configPath).GetConfigPath()
	// yaml files are read only; saving always produces the rc format
	if ext := strings.ToLower(filepath.Ext(path)); path == "" || ext == ".yaml" || ext == ".yml" {
		path = config.DefaultPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(c.root.config.String()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
