package keymap

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DataRoot returns the root of the system's XKB data, as overridden
// by $XKB_CONFIG_ROOT.
func DataRoot() string {
	if root, ok := os.LookupEnv("XKB_CONFIG_ROOT"); ok && (root != "") {
		return root
	}
	return "/usr/share/X11/xkb"
}

// Names is an RMLVO description of a keymap: rules, model, layout,
// variant and options.
type Names struct {
	Rules   string
	Model   string
	Layout  Layout
	Variant string
	Options []string
}

// DefaultNames returns the names used when only a layout is chosen.
func DefaultNames(layout Layout) Names {
	return Names{
		Rules:  "evdev",
		Model:  "pc105",
		Layout: layout,
	}
}

// Keymap is a compiled keymap in the XKB text format.
type Keymap struct {
	text string
}

// Compile resolves names into a complete keymap. It fails if the
// layout can't be resolved against the system's keyboard data.
func Compile(names Names) (*Keymap, error) {
	if !names.Layout.valid() {
		return nil, UnsupportedLayoutError{Layout: names.Layout.String()}
	}

	text, err := compile(names)
	if err != nil {
		return nil, err
	}
	return &Keymap{text: strings.TrimRight(text, "\x00")}, nil
}

func (km *Keymap) String() string {
	return km.text
}

// Bytes returns the keymap text with a terminating NUL, which is the
// form that the compositor expects.
func (km *Keymap) Bytes() []byte {
	buf := make([]byte, len(km.text)+1)
	copy(buf, km.text)
	return buf
}

// Size returns the length of Bytes.
func (km *Keymap) Size() uint32 {
	return uint32(len(km.text) + 1)
}

// File writes the keymap to a new unlinked file in $XDG_RUNTIME_DIR,
// falling back to the system temporary directory, and returns it
// positioned at the start. The caller must close it.
func (km *Keymap) File() (*os.File, error) {
	file, err := createTransferFile(os.Getenv("XDG_RUNTIME_DIR"))
	if err != nil {
		file, err = createTransferFile(os.TempDir())
		if err != nil {
			return nil, fmt.Errorf("create keymap file: %w", err)
		}
	}

	_, err = file.Write(km.Bytes())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("write keymap file: %w", err)
	}
	_, err = file.Seek(0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("rewind keymap file: %w", err)
	}

	return file, nil
}

func createTransferFile(dir string) (*os.File, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}

	file, err := os.CreateTemp(dir, "wlkbd-keymap-*")
	if err != nil {
		return nil, err
	}
	err = os.Remove(file.Name())
	if err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}
