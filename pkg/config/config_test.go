package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.False(t, cfg.Plain)
	assert.Nil(t, cfg.Context)
	require.NoError(t, cfg.Validate())

	before, after := cfg.ContextLines()
	assert.Equal(t, 0, before)
	assert.Equal(t, 0, after)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
color: never
plain: true
before: 2
after: 3
allow_binary_files: true
index: /var/cache/line.db
`))
	require.NoError(t, err)

	assert.Equal(t, ColorNever, cfg.Color)
	assert.True(t, cfg.Plain)
	assert.True(t, cfg.AllowBinaryFiles)
	assert.Equal(t, "/var/cache/line.db", cfg.Index)

	before, after := cfg.ContextLines()
	assert.Equal(t, 2, before)
	assert.Equal(t, 3, after)
}

func TestParse_ContextSetsBoth(t *testing.T) {
	cfg, err := Parse([]byte("context: 4\n"))
	require.NoError(t, err)

	before, after := cfg.ContextLines()
	assert.Equal(t, 4, before)
	assert.Equal(t, 4, after)
	assert.Equal(t, ColorAuto, cfg.Color, "unset keys keep their defaults")
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad color", "color: sometimes\n", "invalid color mode"},
		{"negative before", "before: -1\n", "can't be negative"},
		{"negative context", "context: -2\n", "can't be negative"},
		{"context with after", "context: 1\nafter: 2\n", "can't be combined"},
		{"unknown key", "colour: never\n", "failed to parse YAML"},
		{"malformed", "color: [\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: always\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ColorAlways, cfg.Color)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ExpandsHomeInIndex(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index: ~/line.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "line.db"), cfg.Index)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "line", "config.yaml"), path)

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)
	path, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "line", "config.yaml"), path)
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "line"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "line", "config.yaml"), []byte("plain: true\n"), 0o644))

	cfg, err = LoadDefault()
	require.NoError(t, err)
	assert.True(t, cfg.Plain)
}
