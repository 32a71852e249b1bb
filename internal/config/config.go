package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
	"github.com/example/mediaeditor/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Viewport is the area images are fitted into. Zero means the default.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) String() string {
	if v.Width == 0 && v.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	SaveDir    string
	StickerDir string
	Viewport   Viewport
	Brush      paint.Brush
	Text       overlay.Style
	Notify     Notify
	Themes     map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // empty falls back to env, then the built-in theme
		Brush:  paint.DefaultBrush(),
		Text:   overlay.DefaultStyle(),
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.StickerDir != "" {
		fmt.Fprintf(&sb, "sticker_dir = %s\n", c.StickerDir)
	}
	if v := c.Viewport.String(); v != "" {
		fmt.Fprintf(&sb, "viewport = %s\n", v)
	}
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "color = %s\n", c.Brush.Color)
	fmt.Fprintf(&sb, "size = %d\n", c.Brush.Size)
	fmt.Fprintf(&sb, "type = %s\n", c.Brush.Type)
	sb.WriteString("\n")

	sb.WriteString("[text]\n")
	fmt.Fprintf(&sb, "font = %s\n", c.Text.Font)
	fmt.Fprintf(&sb, "size = %d\n", c.Text.Size)
	fmt.Fprintf(&sb, "color = %s\n", c.Text.Color)
	fmt.Fprintf(&sb, "frame = %s\n", c.Text.Frame)
	fmt.Fprintf(&sb, "align = %s\n", c.Text.Align)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// sorted for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = c.Themes[name].Write(&sb)
		sb.WriteString("\n")
	}

	return sb.String()
}
