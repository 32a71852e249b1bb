package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/mediaeditor/internal/colorpick"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
	"github.com/example/mediaeditor/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	return parseInto(New(), r)
}

// parseInto applies the keys present in r on top of cfg.
func parseInto(cfg *Config, r io.Reader) (*Config, error) {
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			raw := strings.TrimSpace(line[1 : len(line)-1])
			section = strings.ToLower(raw)
			current = nil
			if strings.HasPrefix(section, "theme.") {
				name := raw[len("theme."):]
				// start from defaults so missing keys are fine
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		// Key = Value or Key: Value
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case current != nil:
			err = current.Set(key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case section == "text":
			err = setTextField(&cfg.Text, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "sticker_dir":
		cfg.StickerDir = value
	case "viewport":
		v, err := ParseViewport(value)
		if err != nil {
			return err
		}
		cfg.Viewport = v
	}
	return nil
}

// ParseViewport reads "WxH".
func ParseViewport(s string) (Viewport, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Viewport{}, fmt.Errorf("viewport %q: want WxH", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return Viewport{}, fmt.Errorf("viewport width: %w", err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return Viewport{}, fmt.Errorf("viewport height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return Viewport{}, fmt.Errorf("viewport %q must be positive", s)
	}
	return Viewport{Width: w, Height: h}, nil
}

func setBrushField(b *paint.Brush, key, value string) error {
	switch strings.ToLower(key) {
	case "color", "colour":
		hex, err := colorpick.Normalize(value)
		if err != nil {
			return err
		}
		b.Color = hex
	case "size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		if n < 0 || n > paint.MaxSize {
			return fmt.Errorf("brush size %d out of range 0..%d", n, paint.MaxSize)
		}
		b.Size = n
	case "type":
		t, err := paint.ParseBrushType(value)
		if err != nil {
			return err
		}
		b.Type = t
	}
	return nil
}

func setTextField(s *overlay.Style, key, value string) error {
	switch strings.ToLower(key) {
	case "font":
		f, ok := overlay.LookupFont(value)
		if !ok {
			return fmt.Errorf("unknown font %q", value)
		}
		s.Font = f
	case "size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		if n < 0 || n > overlay.MaxTextSize {
			return fmt.Errorf("text size %d out of range 0..%d", n, overlay.MaxTextSize)
		}
		s.Size = n
	case "color", "colour":
		hex, err := colorpick.Normalize(value)
		if err != nil {
			return err
		}
		s.Color = hex
	case "frame":
		f, err := overlay.ParseFrame(value)
		if err != nil {
			return err
		}
		s.Frame = f
	case "align":
		a, err := overlay.ParseAlign(value)
		if err != nil {
			return err
		}
		s.Align = a
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
