// Package config handles lox.toml interpreter configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "lox.toml"

// Config represents a lox.toml file.
type Config struct {
	VM   VMConfig   `toml:"vm"`
	Log  LogConfig  `toml:"log"`
	REPL REPLConfig `toml:"repl"`

	// Dir is the directory containing the lox.toml file (set at load time).
	Dir string `toml:"-"`
}

// VMConfig configures the virtual machine.
type VMConfig struct {
	StackSize int  `toml:"stack_size"`
	Trace     bool `toml:"trace"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// REPLConfig configures the interactive prompt.
type REPLConfig struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
}

// Default returns the configuration used when no lox.toml exists.
func Default() *Config {
	return &Config{
		VM:   VMConfig{StackSize: 256},
		Log:  LogConfig{Level: "warn"},
		REPL: REPLConfig{Prompt: "> ", HistoryFile: ".lox_history"},
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if _, err := toml.Decode(string(data), c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load parses a lox.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a lox.toml file, then loads
// it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate rejects values the interpreter cannot run with.
func (c *Config) Validate() error {
	if c.VM.StackSize < 1 {
		return fmt.Errorf("vm.stack_size must be at least 1, got %d", c.VM.StackSize)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured level, raised to trace when vm.trace is set.
func (c *Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log.level: %w", err)
	}
	if c.VM.Trace {
		level = zerolog.TraceLevel
	}
	return level, nil
}

// HistoryPath resolves the REPL history file. Relative paths are taken
// from the user's home directory; an empty setting disables history.
func (c *Config) HistoryPath() string {
	p := c.REPL.HistoryFile
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p)
}
