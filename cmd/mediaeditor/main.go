package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/mediaeditor/internal/config"
	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/notify"
	"github.com/example/mediaeditor/internal/theme"
	"github.com/gogpu/gg"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	verbose     bool
	activeTheme *theme.Theme
	editorOpts  []editor.Option
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	child := *r
	child.fs = nil
	child.program = program
	return &child
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("mediaeditor", flag.ExitOnError),
		program:  "mediaeditor",
		notifier: notify.New(notify.LoadPreferences(os.Getenv)),
		config:   cfg,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.StringVar(&r.configPath, "config", "", "read configuration from this file")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.verbose, "verbose", false, "log rasteriser diagnostics")

	// Precedence: CLI > Config > Env > Default. The environment is applied
	// beneath the file by the config loader.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

// reloadConfig reads the file named by -config. Notification flags given on
// the command line keep their values.
func (r *root) reloadConfig() error {
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", r.configPath, err)
	}
	r.config = cfg
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-save"] {
		r.saveAlerts = cfg.Notify.Save
	}
	if !set["notify-copy"] {
		r.copyAlerts = cfg.Notify.Copy
	}
	return nil
}

// resolveTheme picks the theme named on the command line, then the config,
// looking first at [theme.NAME] sections and then at the theme loader.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && !strings.EqualFold(name, "default") {
			fmt.Fprintf(r.errOut(), "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.configPath != "" {
		if err := r.reloadConfig(); err != nil {
			return err
		}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	if r.verbose {
		gg.SetLogger(slog.Default())
	}
	r.activeTheme = r.resolveTheme()

	cmd, err := r.parse(r.fs.Arg(0), r.fs.Args()[1:])
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) parse(name string, args []string) (runnable, error) {
	switch name {
	case "edit":
		return parseEditCmd(args, r)
	case "render":
		return parseRenderCmd(args, r)
	case "file":
		return parseFileCmd(args, r)
	case "interactive":
		return parseInteractiveCmd(args, r)
	case "filters":
		return parseFiltersCmd(args, r)
	case "brushes":
		return parseBrushesCmd(args, r)
	case "fonts":
		return parseFontsCmd(args, r)
	case "colors":
		return parseColorsCmd(args, r)
	case "pick":
		return parsePickCmd(args, r)
	case "config":
		return parseConfigCmd(args, r)
	case "version":
		return &versionCmd{r: r}, nil
	}
	return nil, &UsageError{of: r}
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

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

// out and errOut fall back to the process streams for a bare root.
func (r *root) out() io.Writer {
	if r == nil || r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func (r *root) errOut() io.Writer {
	if r == nil || r.stderr == nil {
		return os.Stderr
	}
	return r.stderr
}
