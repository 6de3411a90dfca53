// Package layout maps positions on the keyboard surface to keys.
package layout

import (
	"image"
	"strings"
	"unicode"

	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/keymap"
)

// ToggleMinimize is the code reported for the minimize button to the
// right of the key grid. It is never sent to the compositor.
const ToggleMinimize keys.Code = 11

// Rows is the number of key rows in the grid.
const Rows = 3

// Icon names a glyph that is drawn instead of a text label.
type Icon string

const (
	NoIcon        Icon = ""
	IconBackspace Icon = "backspace"
	IconEnter     Icon = "enter"
	IconShift     Icon = "shift"
	IconCapsLock  Icon = "capslock"
)

// Key is a single key of a layout.
type Key struct {
	Code  keys.Code
	Label string
	// Shifted is the label shown while shifted. If it is empty, the
	// upper case form of Label is used.
	Shifted string
	Icon    Icon
}

// Text returns the label to draw for the key under mods.
func (k Key) Text(mods keys.Modifiers) string {
	if !mods.Shifted() {
		return k.Label
	}
	if k.Shifted != "" {
		return k.Shifted
	}
	return strings.Map(unicode.ToUpper, k.Label)
}

// Modifier returns the modifier that the key toggles.
func (k Key) Modifier() keys.Modifier {
	return keys.ModifierOf(k.Code)
}

// KeyLayout is the arrangement of keys for one national layout.
type KeyLayout struct {
	layout keymap.Layout
	rows   [Rows][]Key
}

// For returns the key arrangement for l.
func For(l keymap.Layout) *KeyLayout {
	kl := KeyLayout{layout: l}

	top, home, bottom := letters(l)
	kl.rows[0] = append(top, Key{Code: keys.Backspace, Icon: IconBackspace})
	kl.rows[1] = append(append([]Key{{Code: keys.CapsLock, Icon: IconCapsLock}}, home...), Key{Code: keys.Enter, Icon: IconEnter})
	kl.rows[2] = append(append([]Key{{Code: keys.LeftShift, Icon: IconShift}}, bottom...),
		Key{Code: keys.LeftCtrl, Label: "ctrl"},
		Key{Code: keys.LeftAlt, Label: "alt"},
		Key{Code: keys.LeftMeta, Label: "super"},
		Key{Code: keys.Space, Label: "space"},
	)

	return &kl
}

// Layout returns the national layout that kl was built for.
func (kl *KeyLayout) Layout() keymap.Layout {
	return kl.layout
}

// Row returns the keys of row i from left to right.
func (kl *KeyLayout) Row(i int) []Key {
	return kl.rows[i]
}

// Geometry is the placement of the key grid on a surface of a given
// size. The grid is three rows of height Step. It ends one step from
// the right edge and spans three steps. The column to its right holds
// the minimize button.
type Geometry struct {
	Width, Height int
}

func (g Geometry) Step() int {
	return g.Height / Rows
}

// Left is the left edge of the key grid.
func (g Geometry) Left() int {
	return g.Width - 4*g.Step()
}

// Right is the right edge of the key grid.
func (g Geometry) Right() int {
	return g.Width - g.Step()
}

// KeyRect returns the bounds of key col of a row containing n keys.
func (g Geometry) KeyRect(row, col, n int) image.Rectangle {
	step := g.Step()
	left, right := g.Left(), g.Right()
	return image.Rect(
		left+(right-left)*col/n,
		row*step,
		left+(right-left)*(col+1)/n,
		(row+1)*step,
	)
}

// ToggleRect returns the bounds of the minimize button.
func (g Geometry) ToggleRect() image.Rectangle {
	step := g.Step()
	return image.Rect(g.Right(), step, g.Width, 2*step)
}

// HitTest returns the code of the key under p, if there is one.
func (kl *KeyLayout) HitTest(g Geometry, p image.Point) (keys.Code, bool) {
	step := g.Step()
	if step <= 0 {
		return 0, false
	}

	left, right := g.Left(), g.Right()
	switch {
	case p.X < left:
		return 0, false
	case p.X > right:
		if p.Y/step == 1 {
			return ToggleMinimize, true
		}
		return 0, false
	}

	row := min(max(p.Y/step, 0), Rows-1)
	r := kl.rows[row]
	if (len(r) == 0) || (right <= left) {
		return 0, false
	}
	col := min((p.X-left)*len(r)/(right-left), len(r)-1)
	return r[col].Code, true
}
