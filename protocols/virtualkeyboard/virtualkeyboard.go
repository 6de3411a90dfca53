// Package virtualkeyboard implements the client side of the
// virtual-keyboard-unstable-v1 protocol, which lets a client inject
// keyboard events into a seat.
package virtualkeyboard

import (
	"os"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/wire"
)

const (
	ManagerInterface = "zwp_virtual_keyboard_manager_v1"
	ManagerVersion   = 1

	KeyboardInterface = "zwp_virtual_keyboard_v1"
)

const managerCreateVirtualKeyboard = 0

const (
	keyboardKeymap    = 0
	keyboardKey       = 1
	keyboardModifiers = 2
	keyboardDestroy   = 3
)

// KeymapFormat is the format of a keymap passed to Keyboard.Keymap.
// The values match wl_keyboard.keymap_format.
type KeymapFormat uint32

const (
	KeymapFormatNoKeymap KeymapFormat = iota
	KeymapFormatXkbV1
)

// KeyState matches wl_keyboard.key_state.
type KeyState uint32

const (
	KeyStateReleased KeyState = iota
	KeyStatePressed
)

func (s KeyState) String() string {
	switch s {
	case KeyStateReleased:
		return "released"
	case KeyStatePressed:
		return "pressed"
	}

	return "unknown"
}

type Manager struct {
	wl.Proxy
}

func BindManager(client *wl.Client, registry *wl.Registry, name, version uint32) *Manager {
	m := &Manager{Proxy: wl.NewProxy(client)}
	registry.Bind(name, m, min(version, ManagerVersion))
	return m
}

func (m *Manager) Interface() string {
	return ManagerInterface
}

// CreateVirtualKeyboard creates a virtual keyboard attached to seat.
// A keymap must be sent before any keys.
func (m *Manager) CreateVirtualKeyboard(seat *wl.Seat) *Keyboard {
	kb := &Keyboard{Proxy: wl.NewProxy(m.Client())}
	m.Client().Add(kb)

	msg := wire.NewMessage(m, managerCreateVirtualKeyboard)
	msg.WriteObject(seat)
	msg.WriteUint(kb.ID())
	m.Client().Enqueue(msg)

	return kb
}

func (m *Manager) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ManagerInterface, Type: "event", Op: msg.Op()}
}

type Keyboard struct {
	wl.Proxy
}

func (kb *Keyboard) Interface() string {
	return KeyboardInterface
}

// Keymap sends a keymap. file can be closed once the request has been
// flushed.
func (kb *Keyboard) Keymap(format KeymapFormat, file *os.File, size uint32) {
	msg := wire.NewMessage(kb, keyboardKeymap)
	msg.WriteUint(uint32(format))
	msg.WriteFile(file)
	msg.WriteUint(size)
	kb.Client().Enqueue(msg)
}

// Key sends a key event. key is an evdev key code.
func (kb *Keyboard) Key(time, key uint32, state KeyState) {
	msg := wire.NewMessage(kb, keyboardKey)
	msg.WriteUint(time)
	msg.WriteUint(key)
	msg.WriteUint(uint32(state))
	kb.Client().Enqueue(msg)
}

func (kb *Keyboard) Modifiers(depressed, latched, locked, group uint32) {
	msg := wire.NewMessage(kb, keyboardModifiers)
	msg.WriteUint(depressed)
	msg.WriteUint(latched)
	msg.WriteUint(locked)
	msg.WriteUint(group)
	kb.Client().Enqueue(msg)
}

func (kb *Keyboard) Destroy() {
	kb.Client().Enqueue(wire.NewMessage(kb, keyboardDestroy))
	kb.Client().Destroy(kb)
}

func (kb *Keyboard) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: KeyboardInterface, Type: "event", Op: msg.Op()}
}
