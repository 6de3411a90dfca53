package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"deedles.dev/wlkbd/internal/config"
	"deedles.dev/wlkbd/keymap"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every search location at empty temporary directories
// and returns the XDG config directory.
func isolate(t *testing.T) string {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	return xdg
}

func writeConfig(t *testing.T, xdg, data string) {
	dir := filepath.Join(xdg, "wlkbd")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wlkbd.toml"), []byte(data), 0644))
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, "us", cfg.Layout)
	assert.Empty(t, cfg.Options)
	assert.Equal(t, 300, cfg.Height)
	assert.Equal(t, 30, cfg.MinimizedHeight)
	assert.Equal(t, "", cfg.Output)
	assert.Equal(t, "wlkbd", cfg.Namespace)
	assert.Equal(t, config.CursorConfig{Size: 24}, cfg.Cursor)
	assert.Equal(t, log.InfoLevel, cfg.Level())

	names, err := cfg.Names()
	require.NoError(t, err)
	assert.Equal(t, keymap.EnglishUs, names.Layout)
	assert.Equal(t, "evdev", names.Rules)
	assert.Equal(t, "pc105", names.Model)
	assert.Empty(t, names.Variant)
	assert.Empty(t, names.Options)
}

func TestFile(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
layout = "de"
variant = "nodeadkeys"
options = ["ctrl:nocaps"]
height = 400
output = "DP-2"
log_level = "debug"

[cursor]
theme = "Adwaita"
size = 32
`)

	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Height)
	assert.Equal(t, 30, cfg.MinimizedHeight)
	assert.Equal(t, "DP-2", cfg.Output)
	assert.Equal(t, config.CursorConfig{Theme: "Adwaita", Size: 32}, cfg.Cursor)
	assert.Equal(t, log.DebugLevel, cfg.Level())

	names, err := cfg.Names()
	require.NoError(t, err)
	assert.Equal(t, keymap.German, names.Layout)
	assert.Equal(t, "nodeadkeys", names.Variant)
	assert.Equal(t, []string{"ctrl:nocaps"}, names.Options)
	assert.Equal(t, "pc105", names.Model)
	assert.Equal(t, "evdev", names.Rules)
}

func TestEnv(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `height = 400`)
	t.Setenv("WLKBD_HEIGHT", "250")
	t.Setenv("WLKBD_CURSOR_SIZE", "48")
	t.Setenv("WLKBD_LAYOUT", "Norwegian")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Height)
	assert.Equal(t, 48, cfg.Cursor.Size)

	names, err := cfg.Names()
	require.NoError(t, err)
	assert.Equal(t, keymap.Norwegian, names.Layout)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Syntax", `height = `},
		{"Height", `height = 0`},
		{"MinimizedHeight", `minimized_height = 300`},
		{"CursorSize", "[cursor]\nsize = -1"},
		{"LogLevel", `log_level = "loud"`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			xdg := isolate(t)
			writeConfig(t, xdg, test.data)

			_, err := config.Load(config.New())
			assert.Error(t, err)
		})
	}
}

func TestUnknownLayout(t *testing.T) {
	isolate(t)
	t.Setenv("WLKBD_LAYOUT", "klingon")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	_, err = cfg.Names()
	var unsupported keymap.UnsupportedLayoutError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "klingon", unsupported.Layout)
}
