package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte("[vm]\nstack_size = 64\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.VM.StackSize != 64 {
		t.Fatalf("stack_size = %d", c.VM.StackSize)
	}
	if c.REPL.Prompt != "> " || c.Log.Level != "warn" {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"[vm]\nstack_size = 0\n", "stack_size"},
		{"[log]\nlevel = \"loud\"\n", "log.level"},
		{"[vm\n", ""},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.body))
		if err == nil {
			t.Errorf("%q: expected error", tt.body)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: error %v does not mention %q", tt.body, err, tt.want)
		}
	}
}

func TestLogLevel(t *testing.T) {
	c := Default()
	c.Log.Level = "debug"
	if l, err := c.LogLevel(); err != nil || l != zerolog.DebugLevel {
		t.Fatalf("level = %v, %v", l, err)
	}
	c.VM.Trace = true
	if l, _ := c.LogLevel(); l != zerolog.TraceLevel {
		t.Fatalf("trace must raise the level, got %v", l)
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[repl]\nprompt = \"lox> \"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if c == nil || c.REPL.Prompt != "lox> " {
		t.Fatalf("unexpected config %+v", c)
	}
	abs, _ := filepath.Abs(root)
	if c.Dir != abs {
		t.Fatalf("Dir = %s, want %s", c.Dir, abs)
	}
}

func TestLoadReportsPath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[vm]\nstack_size = -1\n")
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), FileName) {
		t.Fatalf("expected error naming the file, got %v", err)
	}
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestHistoryPath(t *testing.T) {
	c := Default()
	c.REPL.HistoryFile = ""
	if c.HistoryPath() != "" {
		t.Fatalf("empty history file must stay empty")
	}
	c.REPL.HistoryFile = "/tmp/h"
	if c.HistoryPath() != "/tmp/h" {
		t.Fatalf("absolute path changed: %s", c.HistoryPath())
	}
}
