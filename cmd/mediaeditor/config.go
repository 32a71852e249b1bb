package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/mediaeditor/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

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
		fmt.Fprint(c.out(), c.root.config.String())
		return nil
	case "path":
		fmt.Fprintln(c.out(), c.savePath())
		return nil
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

// savePath is the file config save writes: the loaded file, or the XDG
// default when none exists yet.
func (c *configCmd) savePath() string {
	override := configPathOverride
	if c.root.configPath != "" {
		override = c.root.configPath
	}
	if path := config.NewLoader(version, override).GetConfigPath(); path != "" {
		return path
	}
	if c.root.configPath != "" {
		return c.root.configPath
	}
	return config.DefaultPath()
}

func (c *configCmd) runSave() error {
	path := c.savePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.root.config.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	fmt.Fprintf(c.errOut(), "Configuration saved to %s\n", path)
	return nil
}
