//go:build cgo && xkbcommon

package keymap

/*
#cgo pkg-config: xkbcommon
#include <stdlib.h>
#include <xkbcommon/xkbcommon.h>
*/
import "C"

import (
	"strings"
	"unsafe"
)

func compile(names Names) (string, error) {
	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return "", UnsupportedLayoutError{Layout: names.Layout.Name(), Variant: names.Variant}
	}
	defer C.xkb_context_unref(ctx)

	rules := C.CString(names.Rules)
	defer C.free(unsafe.Pointer(rules))
	model := C.CString(names.Model)
	defer C.free(unsafe.Pointer(model))
	layout := C.CString(names.Layout.Name())
	defer C.free(unsafe.Pointer(layout))
	variant := C.CString(names.Variant)
	defer C.free(unsafe.Pointer(variant))
	options := C.CString(strings.Join(names.Options, ","))
	defer C.free(unsafe.Pointer(options))

	rmlvo := C.struct_xkb_rule_names{
		rules:   rules,
		model:   model,
		layout:  layout,
		variant: variant,
		options: options,
	}
	km := C.xkb_keymap_new_from_names(ctx, &rmlvo, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if km == nil {
		return "", UnsupportedLayoutError{Layout: names.Layout.Name(), Variant: names.Variant}
	}
	defer C.xkb_keymap_unref(km)

	str := C.xkb_keymap_get_as_string(km, C.XKB_KEYMAP_FORMAT_TEXT_V1)
	if str == nil {
		return "", UnsupportedLayoutError{Layout: names.Layout.Name(), Variant: names.Variant}
	}
	defer C.free(unsafe.Pointer(str))

	return C.GoString(str), nil
}
