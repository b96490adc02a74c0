// Package config loads defaults for the line command from a YAML file.
//
// A config file looks like:
//
//	color: auto
//	plain: false
//	context: 2
//	allow_binary_files: false
//	index: ~/.cache/line/index.db
//
// Flags given on the command line always win over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color modes accepted by the color key and the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings a config file may provide.
type Config struct {
	Color            string `yaml:"color"`
	Plain            bool   `yaml:"plain"`
	Before           int    `yaml:"before"`
	After            int    `yaml:"after"`
	Context          *int   `yaml:"context"`
	AllowBinaryFiles bool   `yaml:"allow_binary_files"`
	Index            string `yaml:"index"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Color: ColorAuto}
}

// Parse reads a config from YAML bytes, on top of the defaults. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Index = expandHome(cfg.Index)
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/line/config.yaml, falling back to
// ~/.config/line/config.yaml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "line", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(home, ".config", "line", "config.yaml"), nil
}

// LoadDefault loads the config at DefaultPath. A missing file, or a home
// directory that can't be found, yields the defaults.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the config for values no flag would accept.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want %s, %s or %s)", c.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.Before < 0 || c.After < 0 {
		return fmt.Errorf("before and after can't be negative")
	}
	if c.Context != nil {
		if *c.Context < 0 {
			return fmt.Errorf("context can't be negative")
		}
		if c.Before != 0 || c.After != 0 {
			return fmt.Errorf("context can't be combined with before or after")
		}
	}
	return nil
}

// ContextLines returns the number of lines to show before and after each
// selected line. The context key sets both.
func (c *Config) ContextLines() (before, after int) {
	if c.Context != nil {
		return *c.Context, *c.Context
	}
	return c.Before, c.After
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
