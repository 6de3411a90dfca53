// Package keymap builds XKB keymaps for the virtual keyboard and
// prepares them for transfer to the compositor.
package keymap

import (
	"fmt"
	"strings"
)

// Layout is one of the supported national keyboard layouts.
type Layout int

const (
	EnglishUs Layout = iota
	EnglishUk
	Norwegian
	Swedish
	Danish
	German
	French
	Spanish
	Italian
)

var layouts = [...]struct {
	name  string
	desc  string
	alias string
}{
	EnglishUs: {"us", "English (US)", "qwerty"},
	EnglishUk: {"gb", "English (UK)", "qwerty"},
	Norwegian: {"no", "Norwegian", "qwerty"},
	Swedish:   {"se", "Swedish", "qwerty"},
	Danish:    {"dk", "Danish", "qwerty"},
	German:    {"de", "German", "qwertz"},
	French:    {"fr", "French", "azerty"},
	Spanish:   {"es", "Spanish", "qwerty"},
	Italian:   {"it", "Italian", "qwerty"},
}

// Layouts returns every supported layout.
func Layouts() []Layout {
	all := make([]Layout, len(layouts))
	for i := range all {
		all[i] = Layout(i)
	}
	return all
}

func (l Layout) valid() bool {
	return (l >= 0) && (int(l) < len(layouts))
}

// Name returns the XKB name of the layout, such as "us".
func (l Layout) Name() string {
	if !l.valid() {
		return ""
	}
	return layouts[l].name
}

func (l Layout) String() string {
	if !l.valid() {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layouts[l].desc
}

// Aliases returns the XKB keycode alias set that matches the layout's
// letter arrangement.
func (l Layout) Aliases() string {
	if !l.valid() {
		return "qwerty"
	}
	return layouts[l].alias
}

// ParseLayout finds a layout by its XKB name or its description. The
// comparison is case-insensitive.
func ParseLayout(str string) (Layout, error) {
	str = strings.TrimSpace(str)
	for i, l := range layouts {
		if strings.EqualFold(str, l.name) || strings.EqualFold(str, l.desc) {
			return Layout(i), nil
		}
	}
	return 0, UnsupportedLayoutError{Layout: str}
}

// UnsupportedLayoutError is returned when a layout is not one of the
// supported layouts or can't be found in the system's keyboard data.
type UnsupportedLayoutError struct {
	Layout  string
	Variant string
}

func (err UnsupportedLayoutError) Error() string {
	if err.Variant != "" {
		return fmt.Sprintf("unsupported keyboard layout %q (variant %q)", err.Layout, err.Variant)
	}
	return fmt.Sprintf("unsupported keyboard layout %q", err.Layout)
}
