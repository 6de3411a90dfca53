package layout

import (
	"slices"

	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/keymap"
)

func row(codes []keys.Code, labels string) []Key {
	runes := []rune(labels)
	row := make([]Key, len(codes))
	for i, code := range codes {
		row[i] = Key{Code: code, Label: string(runes[i])}
	}
	return row
}

var (
	topCodes    = []keys.Code{keys.Q, keys.W, keys.E, keys.R, keys.T, keys.Y, keys.U, keys.I, keys.O, keys.P}
	homeCodes   = []keys.Code{keys.A, keys.S, keys.D, keys.F, keys.G, keys.H, keys.J, keys.K, keys.L}
	bottomCodes = []keys.Code{keys.Z, keys.X, keys.C, keys.V, keys.B, keys.N, keys.M}
)

// letters returns the letter keys of each row for l. The codes are
// physical positions, so the labels are what differ between layouts.
func letters(l keymap.Layout) (top, home, bottom []Key) {
	switch l {
	case keymap.German:
		top = row(slices.Concat(topCodes, []keys.Code{keys.LeftBrace}), "qwertzuiopü")
		home = row(slices.Concat(homeCodes, []keys.Code{keys.Semicolon, keys.Apostrophe}), "asdfghjklöä")
		bottom = row(bottomCodes, "yxcvbnm")

	case keymap.French:
		top = row(topCodes, "azertyuiop")
		home = row(slices.Concat(homeCodes, []keys.Code{keys.Semicolon}), "qsdfghjklm")
		bottom = row(bottomCodes, "wxcvbn,")
		bottom[6].Shifted = "?"

	case keymap.Norwegian:
		top = row(slices.Concat(topCodes, []keys.Code{keys.LeftBrace}), "qwertyuiopå")
		home = row(slices.Concat(homeCodes, []keys.Code{keys.Semicolon, keys.Apostrophe}), "asdfghjkløæ")
		bottom = row(bottomCodes, "zxcvbnm")

	case keymap.Danish:
		top = row(slices.Concat(topCodes, []keys.Code{keys.LeftBrace}), "qwertyuiopå")
		home = row(slices.Concat(homeCodes, []keys.Code{keys.Semicolon, keys.Apostrophe}), "asdfghjklæø")
		bottom = row(bottomCodes, "zxcvbnm")

	case keymap.Swedish:
		top = row(slices.Concat(topCodes, []keys.Code{keys.LeftBrace}), "qwertyuiopå")
		home = row(slices.Concat(homeCodes, []keys.Code{keys.Semicolon, keys.Apostrophe}), "asdfghjklöä")
		bottom = row(bottomCodes, "zxcvbnm")

	case keymap.Spanish:
		top = row(topCodes, "qwertyuiop")
		home = row(slices.Concat(homeCodes, []keys.Code{keys.Semicolon}), "asdfghjklñ")
		bottom = row(bottomCodes, "zxcvbnm")

	case keymap.Italian:
		top = row(slices.Concat(topCodes, []keys.Code{keys.LeftBrace}), "qwertyuiopè")
		home = row(slices.Concat(homeCodes, []keys.Code{keys.Semicolon, keys.Apostrophe}), "asdfghjklòà")
		bottom = row(bottomCodes, "zxcvbnm")

	default:
		top = row(topCodes, "qwertyuiop")
		home = row(homeCodes, "asdfghjkl")
		bottom = row(bottomCodes, "zxcvbnm")
	}

	return top, home, bottom
}
