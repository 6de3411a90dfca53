package wl

import "deedles.dev/wlkbd/wire"

const (
	DisplayInterface = "wl_display"
	DisplayVersion   = 1
)

const (
	displaySync        = 0
	displayGetRegistry = 1

	displayError    = 0
	displayDeleteId = 1
)

type DisplayListener interface {
	Error(id, code uint32, msg string)
	DeleteId(id uint32)
}

type Display struct {
	Proxy
	Listener DisplayListener
}

func (display *Display) Interface() string {
	return DisplayInterface
}

// Sync requests a callback that fires once the compositor has
// processed every request sent before it.
func (display *Display) Sync() *Callback {
	cb := &Callback{Proxy: NewProxy(display.client)}
	display.client.Add(cb)

	msg := wire.NewMessage(display, displaySync)
	msg.WriteUint(cb.ID())
	display.client.Enqueue(msg)

	return cb
}

// GetRegistry creates a new registry. The compositor will announce
// every global to it.
func (display *Display) GetRegistry() *Registry {
	registry := &Registry{
		Proxy:   NewProxy(display.client),
		globals: make(map[uint32]Global),
	}
	display.client.Add(registry)

	msg := wire.NewMessage(display, displayGetRegistry)
	msg.WriteUint(registry.ID())
	display.client.Enqueue(msg)

	return registry
}

func (display *Display) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case displayError:
		id := msg.ReadUint()
		code := msg.ReadUint()
		message := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}

		display.client.fail(&wire.ProtocolError{ObjectID: id, Code: code, Message: message})
		if display.Listener != nil {
			display.Listener.Error(id, code, message)
		}
		return nil

	case displayDeleteId:
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		display.client.Delete(id)
		if display.Listener != nil {
			display.Listener.DeleteId(id)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: DisplayInterface, Type: "event", Op: msg.Op()}
	}
}
