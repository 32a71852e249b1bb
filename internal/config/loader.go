package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file if one exists and applies the
// environment beneath it: file values win over MEDIAEDITOR_* variables.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	ApplyEnv(cfg, os.Getenv)

	path := l.GetConfigPath()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseInto(cfg, f)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".mediaeditorrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	xdgPath := DefaultPath()
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	return ""
}

// DefaultPath is where config save writes when no file exists yet.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mediaeditor", "config.rc")
}

// ApplyEnv copies MEDIAEDITOR_THEME, MEDIAEDITOR_NOTIFY_SAVE and
// MEDIAEDITOR_NOTIFY_COPY into cfg. Unparseable booleans are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv("MEDIAEDITOR_THEME")); v != "" {
		cfg.Theme = v
	}
	boolEnv := func(key string, dst *bool) {
		if b, err := strconv.ParseBool(strings.TrimSpace(getenv(key))); err == nil {
			*dst = b
		}
	}
	boolEnv("MEDIAEDITOR_NOTIFY_SAVE", &cfg.Notify.Save)
	boolEnv("MEDIAEDITOR_NOTIFY_COPY", &cfg.Notify.Copy)
}
