package theme

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

// EmbeddedThemes holds the bundled theme files.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Names lists the bundled themes without their extension.
func Names() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "defaults")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".theme"); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
