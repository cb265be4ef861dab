package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	lox "github.com/xirelogy/go-lox"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
		want int
	}{
		{"ok", func(t *testing.T) []string { return []string{"run", writeScript(t, "var a = 1;")} }, exitOK},
		{"bare file", func(t *testing.T) []string { return []string{writeScript(t, "var a = 1;")} }, exitOK},
		{"compile error", func(t *testing.T) []string { return []string{"run", writeScript(t, "print ;")} }, exitCompile},
		{"runtime error", func(t *testing.T) []string { return []string{"run", writeScript(t, "-nil;")} }, exitRuntime},
		{"missing file", func(t *testing.T) []string {
			return []string{"run", filepath.Join(t.TempDir(), "nope.lox")}
		}, exitIO},
		{"no file", func(t *testing.T) []string { return []string{"run"} }, exitUsage},
		{"bad flag", func(t *testing.T) []string { return []string{"run", "-bogus", "x"} }, exitUsage},
		{"bad log level", func(t *testing.T) []string {
			return []string{"run", "-log-level", "loud", writeScript(t, "")}
		}, exitUsage},
		{"unknown command", func(t *testing.T) []string { return []string{"-x", "y"} }, exitUsage},
		{"version", func(t *testing.T) []string { return []string{"version"} }, exitOK},
		{"disasm", func(t *testing.T) []string { return []string{"disasm", writeScript(t, "print 1;")} }, exitOK},
		{"disasm cbor", func(t *testing.T) []string {
			return []string{"disasm", "-format", "cbor", writeScript(t, "print 1;")}
		}, exitOK},
		{"disasm bad format", func(t *testing.T) []string {
			return []string{"disasm", "-format", "xml", writeScript(t, "print 1;")}
		}, exitUsage},
		{"disasm compile error", func(t *testing.T) []string { return []string{"disasm", writeScript(t, "print")} }, exitCompile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args(t)); got != tt.want {
				t.Fatalf("exit code %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(lox.ResultOK, nil) != exitOK {
		t.Fatalf("ok must map to 0")
	}
	if exitCode(lox.ResultOK, errors.New("boom")) != exitSoftware {
		t.Fatalf("unexpected errors must map to EX_SOFTWARE")
	}
	_, err := os.ReadFile(filepath.Join(t.TempDir(), "missing"))
	if exitCode(lox.ResultOK, err) != exitIO {
		t.Fatalf("read errors must map to EX_IOERR")
	}
}
