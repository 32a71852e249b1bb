package notify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/mediaeditor/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recorder(out *[]sent) Sender {
	return func(title, body string, opts platform.Options) error {
		*out = append(*out, sent{title, body, opts})
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := NewWithSender(DefaultPreferences(), recorder(&got))
	n.Save("x.png")
	n.Copy("")
	if len(got) != 0 {
		t.Fatalf("sent %v", got)
	}
	var nilNotifier *Notifier
	nilNotifier.Save("x.png")
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []sent
	n := NewWithSender(DefaultPreferences(), recorder(&got))
	n.Enable(EventSave, true)
	n.Save(path)
	if len(got) != 1 || got[0].body != "Saved "+path || got[0].opts.IconPath != path {
		t.Fatalf("sent %+v", got)
	}
}

func TestCopyAttachesTemporaryIcon(t *testing.T) {
	var got []sent
	n := NewWithSender(DefaultPreferences(), func(title, body string, opts platform.Options) error {
		if _, err := os.Stat(opts.IconPath); err != nil {
			t.Errorf("icon missing during send: %v", err)
		}
		got = append(got, sent{title, body, opts})
		return nil
	})
	n.Enable(EventCopy, true)
	n.Copy("")
	if len(got) != 1 || got[0].body != "Copied image to clipboard" {
		t.Fatalf("sent %+v", got)
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("icon not cleaned up: %v", err)
	}
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		"MEDIAEDITOR_NOTIFY_TITLE":     "Editor",
		"MEDIAEDITOR_NOTIFY_SAVE_TEXT": "Wrote %s",
	}
	p := LoadPreferences(func(k string) string { return env[k] })
	if p.Title != "Editor" || p.Templates[EventSave] != "Wrote %s" || p.Templates[EventCopy] != "Copied %s to clipboard" {
		t.Fatalf("prefs = %+v", p)
	}
}
