package wl

import (
	"deedles.dev/wlkbd/wire"
	"golang.org/x/exp/maps"
)

const (
	RegistryInterface = "wl_registry"
	RegistryVersion   = 1
)

const (
	registryBind = 0

	registryGlobal       = 0
	registryGlobalRemove = 1
)

// Global describes a global object announced by the compositor.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

type RegistryListener interface {
	Global(name uint32, inter string, version uint32)
	GlobalRemove(name uint32)
}

type Registry struct {
	Proxy
	Listener RegistryListener

	globals map[uint32]Global
}

func (registry *Registry) Interface() string {
	return RegistryInterface
}

// Globals returns a snapshot of the globals that are currently
// announced, keyed by name.
func (registry *Registry) Globals() map[uint32]Global {
	return maps.Clone(registry.globals)
}

// Bind binds the global with the given name to obj, which is
// registered with the client if it hasn't been already.
func (registry *Registry) Bind(name uint32, obj wire.Object, version uint32) {
	if obj.ID() == 0 {
		registry.client.Add(obj)
	}

	msg := wire.NewMessage(registry, registryBind)
	msg.WriteUint(name)
	msg.WriteNewID(wire.NewID{
		Interface: obj.Interface(),
		Version:   version,
		ID:        obj.ID(),
	})
	registry.client.Enqueue(msg)
}

func (registry *Registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case registryGlobal:
		name := msg.ReadUint()
		inter := msg.ReadString()
		version := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		registry.globals[name] = Global{Name: name, Interface: inter, Version: version}
		if registry.Listener != nil {
			registry.Listener.Global(name, inter, version)
		}
		return nil

	case registryGlobalRemove:
		name := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		delete(registry.globals, name)
		if registry.Listener != nil {
			registry.Listener.GlobalRemove(name)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: RegistryInterface, Type: "event", Op: msg.Op()}
	}
}
