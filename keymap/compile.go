//go:build !(cgo && xkbcommon)

package keymap

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

func compile(names Names) (string, error) {
	err := checkSymbols(DataRoot(), names.Layout.Name(), names.Variant)
	if err != nil {
		return "", err
	}

	model := names.Model
	if model == "" {
		model = "pc105"
	}

	var sb strings.Builder
	sb.WriteString("xkb_keymap {\n")
	fmt.Fprintf(&sb, "\txkb_keycodes  { include \"%v+aliases(%v)\" };\n", keycodes(names.Rules), names.Layout.Aliases())
	sb.WriteString("\txkb_types     { include \"complete\" };\n")
	sb.WriteString("\txkb_compat    { include \"complete\" };\n")
	fmt.Fprintf(&sb, "\txkb_symbols   { include \"%v\" };\n", symbols(names))
	fmt.Fprintf(&sb, "\txkb_geometry  { include \"pc(%v)\" };\n", model)
	sb.WriteString("};\n")
	return sb.String(), nil
}

func keycodes(rules string) string {
	switch rules {
	case "base", "xorg":
		return "xfree86"
	default:
		return "evdev"
	}
}

func symbols(names Names) string {
	var sb strings.Builder
	sb.WriteString("pc+")
	sb.WriteString(names.Layout.Name())
	if names.Variant != "" {
		fmt.Fprintf(&sb, "(%v)", names.Variant)
	}
	sb.WriteString("+inet(evdev)")

	for _, opt := range names.Options {
		group, name, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok || (group == "") || (name == "") {
			continue
		}
		fmt.Fprintf(&sb, "+%v(%v)", group, name)
	}

	return sb.String()
}

// checkSymbols verifies that the layout and variant exist in the XKB
// data under root. If the data isn't installed, it assumes that the
// compositor has it.
func checkSymbols(root, layout, variant string) error {
	dir := filepath.Join(root, "symbols")
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(dir, layout))
	if err != nil {
		return UnsupportedLayoutError{Layout: layout, Variant: variant}
	}
	if variant == "" {
		return nil
	}

	re := regexp.MustCompile(`xkb_symbols\s+"` + regexp.QuoteMeta(variant) + `"`)
	if !re.Match(data) {
		return UnsupportedLayoutError{Layout: layout, Variant: variant}
	}
	return nil
}
