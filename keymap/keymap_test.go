package keymap_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deedles.dev/wlkbd/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in     string
		layout keymap.Layout
	}{
		{"us", keymap.EnglishUs},
		{"NO", keymap.Norwegian},
		{" de ", keymap.German},
		{"French", keymap.French},
		{"english (uk)", keymap.EnglishUk},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			layout, err := keymap.ParseLayout(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.layout, layout)
		})
	}

	_, err := keymap.ParseLayout("klingon")
	var lerr keymap.UnsupportedLayoutError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "klingon", lerr.Layout)
}

func TestLayouts(t *testing.T) {
	all := keymap.Layouts()
	require.NotEmpty(t, all)
	assert.Equal(t, keymap.EnglishUs, all[0])

	seen := make(map[string]bool)
	for _, l := range all {
		assert.NotEmpty(t, l.Name())
		assert.False(t, seen[l.Name()], "duplicate name %q", l.Name())
		seen[l.Name()] = true

		parsed, err := keymap.ParseLayout(l.Name())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}

	assert.Equal(t, "Layout(99)", keymap.Layout(99).String())
	assert.Empty(t, keymap.Layout(-1).Name())
}

func TestCompileInvalid(t *testing.T) {
	_, err := keymap.Compile(keymap.DefaultNames(keymap.Layout(42)))
	assert.ErrorAs(t, err, new(keymap.UnsupportedLayoutError))
}

func TestDataRoot(t *testing.T) {
	t.Setenv("XKB_CONFIG_ROOT", "/opt/xkb")
	assert.Equal(t, "/opt/xkb", keymap.DataRoot())

	t.Setenv("XKB_CONFIG_ROOT", "")
	assert.Equal(t, "/usr/share/X11/xkb", keymap.DataRoot())
}

func TestFile(t *testing.T) {
	root := fakeXKB(t)
	t.Setenv("XKB_CONFIG_ROOT", root)

	runtime := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtime)

	km, err := keymap.Compile(keymap.DefaultNames(keymap.EnglishUs))
	require.NoError(t, err)

	data := km.Bytes()
	assert.Equal(t, byte(0), data[len(data)-1])
	assert.Equal(t, uint32(len(data)), km.Size())
	assert.Equal(t, km.String(), string(data[:len(data)-1]))

	file, err := km.File()
	require.NoError(t, err)
	defer file.Close()

	contents, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, data, contents)

	entries, err := os.ReadDir(runtime)
	require.NoError(t, err)
	assert.Empty(t, entries, "transfer file should be unlinked")

	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("TMPDIR", tmp)

	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(runtime, "missing"))
	file, err = km.File()
	require.NoError(t, err)
	assert.Equal(t, tmp, fileDir(t, file))
	file.Close()

	t.Setenv("XDG_RUNTIME_DIR", "")
	require.NoError(t, os.Unsetenv("XDG_RUNTIME_DIR"))
	file, err = km.File()
	require.NoError(t, err)
	assert.Equal(t, tmp, fileDir(t, file))
	file.Close()
}

// fileDir returns the directory that an unlinked file was created in.
func fileDir(t *testing.T, file *os.File) string {
	path, err := os.Readlink(fmt.Sprintf("/proc/self/fd/%d", file.Fd()))
	require.NoError(t, err)
	return filepath.Dir(strings.TrimSuffix(path, " (deleted)"))
}

// fakeXKB creates a minimal XKB data directory containing every
// supported layout.
func fakeXKB(t *testing.T) string {
	root := t.TempDir()
	symbols := filepath.Join(root, "symbols")
	require.NoError(t, os.Mkdir(symbols, 0755))

	for _, l := range keymap.Layouts() {
		data := "default xkb_symbols \"basic\" {};\nxkb_symbols \"nodeadkeys\" {};\n"
		if l == keymap.EnglishUs {
			data += "xkb_symbols \"dvorak\" {};\n"
		}
		err := os.WriteFile(filepath.Join(symbols, l.Name()), []byte(data), 0644)
		require.NoError(t, err)
	}
	return root
}
