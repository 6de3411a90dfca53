// Package keys defines the evdev key codes that the keyboard can send
// and the modifier state that goes along with them.
package keys

// Code is an evdev key code. The virtual keyboard protocol sends these
// directly, without the offset of 8 that XKB adds.
type Code uint32

// These values were pulled from linux/input-event-codes.h.
const (
	Esc        Code = 1
	Num1       Code = 2
	Num2       Code = 3
	Num3       Code = 4
	Num4       Code = 5
	Num5       Code = 6
	Num6       Code = 7
	Num7       Code = 8
	Num8       Code = 9
	Num9       Code = 10
	Num0       Code = 11
	Minus      Code = 12
	Equal      Code = 13
	Backspace  Code = 14
	Tab        Code = 15
	Q          Code = 16
	W          Code = 17
	E          Code = 18
	R          Code = 19
	T          Code = 20
	Y          Code = 21
	U          Code = 22
	I          Code = 23
	O          Code = 24
	P          Code = 25
	LeftBrace  Code = 26
	RightBrace Code = 27
	Enter      Code = 28
	LeftCtrl   Code = 29
	A          Code = 30
	S          Code = 31
	D          Code = 32
	F          Code = 33
	G          Code = 34
	H          Code = 35
	J          Code = 36
	K          Code = 37
	L          Code = 38
	Semicolon  Code = 39
	Apostrophe Code = 40
	Grave      Code = 41
	LeftShift  Code = 42
	Backslash  Code = 43
	Z          Code = 44
	X          Code = 45
	C          Code = 46
	V          Code = 47
	B          Code = 48
	N          Code = 49
	M          Code = 50
	Comma      Code = 51
	Dot        Code = 52
	Slash      Code = 53
	RightShift Code = 54
	LeftAlt    Code = 56
	Space      Code = 57
	CapsLock   Code = 58
	RightCtrl  Code = 97
	RightAlt   Code = 100
	Up         Code = 103
	Left       Code = 105
	Right      Code = 106
	Down       Code = 108
	LeftMeta   Code = 125
	RightMeta  Code = 126
	Compose    Code = 127
)

// Modifier is a single modifier bit. The values match the XKB real
// modifier masks so that a Modifiers value can be sent to the
// compositor as is.
type Modifier uint32

const (
	NoModifier Modifier = 0
	Shift      Modifier = 1 << 0
	Lock       Modifier = 1 << 1
	Control    Modifier = 1 << 2
	Alt        Modifier = 1 << 3
	Super      Modifier = 1 << 6
	AltGr      Modifier = 1 << 7
)

func (m Modifier) String() string {
	switch m {
	case Shift:
		return "shift"
	case Lock:
		return "caps"
	case Control:
		return "ctrl"
	case Alt:
		return "alt"
	case Super:
		return "super"
	case AltGr:
		return "altgr"
	case NoModifier:
		return "none"
	}

	return "unknown"
}

// ModifierOf returns the modifier that code toggles, or NoModifier.
func ModifierOf(code Code) Modifier {
	switch code {
	case CapsLock:
		return Lock
	case LeftShift, RightShift:
		return Shift
	case LeftCtrl, RightCtrl:
		return Control
	case LeftAlt, RightAlt:
		return Alt
	case LeftMeta, RightMeta, Compose:
		return Super
	}

	return NoModifier
}

// Modifiers is a set of latched modifiers.
type Modifiers uint32

// Has reports whether every bit of m is set.
func (mods Modifiers) Has(m Modifier) bool {
	return (m != NoModifier) && (Modifier(mods)&m == m)
}

// Toggle flips m.
func (mods Modifiers) Toggle(m Modifier) Modifiers {
	return mods ^ Modifiers(m)
}

// Union returns the modifiers that are set in either mods or other.
func (mods Modifiers) Union(other Modifiers) Modifiers {
	return mods | other
}

// Shifted reports whether letters should be drawn and typed in upper
// case.
func (mods Modifiers) Shifted() bool {
	return mods.Has(Shift) != mods.Has(Lock)
}

func (mods Modifiers) String() string {
	if mods == 0 {
		return "none"
	}

	var str string
	for _, m := range []Modifier{Shift, Lock, Control, Alt, Super, AltGr} {
		if !mods.Has(m) {
			continue
		}
		if str != "" {
			str += "+"
		}
		str += m.String()
	}
	return str
}
