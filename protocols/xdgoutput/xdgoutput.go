// Package xdgoutput implements the client side of the
// xdg-output-unstable-v1 protocol, which reports the logical geometry
// of outputs.
package xdgoutput

import (
	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/wire"
)

const (
	ManagerInterface = "zxdg_output_manager_v1"
	ManagerVersion   = 3

	OutputInterface = "zxdg_output_v1"
)

const (
	managerDestroy      = 0
	managerGetXdgOutput = 1
)

const (
	outputDestroy = 0

	outputLogicalPosition = 0
	outputLogicalSize     = 1
	outputDone            = 2
	outputName            = 3
	outputDescription     = 4
)

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

func (m *Manager) GetXdgOutput(output *wl.Output) *Output {
	out := &Output{Proxy: wl.NewProxy(m.Client())}
	m.Client().Add(out)

	msg := wire.NewMessage(m, managerGetXdgOutput)
	msg.WriteUint(out.ID())
	msg.WriteObject(output)
	m.Client().Enqueue(msg)

	return out
}

func (m *Manager) Destroy() {
	m.Client().Enqueue(wire.NewMessage(m, managerDestroy))
	m.Client().Destroy(m)
}

func (m *Manager) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ManagerInterface, Type: "event", Op: msg.Op()}
}

type OutputListener interface {
	LogicalPosition(x, y int32)
	LogicalSize(width, height int32)
	Done()
	Name(name string)
	Description(description string)
}

type Output struct {
	wl.Proxy
	Listener OutputListener
}

func (out *Output) Interface() string {
	return OutputInterface
}

func (out *Output) Destroy() {
	out.Client().Enqueue(wire.NewMessage(out, outputDestroy))
	out.Client().Destroy(out)
}

func (out *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case outputLogicalPosition, outputLogicalSize:
		x := msg.ReadInt()
		y := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Listener == nil {
			return nil
		}
		if msg.Op() == outputLogicalPosition {
			out.Listener.LogicalPosition(x, y)
		} else {
			out.Listener.LogicalSize(x, y)
		}

	case outputDone:
		if out.Listener != nil {
			out.Listener.Done()
		}

	case outputName, outputDescription:
		str := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Listener == nil {
			return nil
		}
		if msg.Op() == outputName {
			out.Listener.Name(str)
		} else {
			out.Listener.Description(str)
		}

	default:
		return wire.UnknownOpError{Interface: OutputInterface, Type: "event", Op: msg.Op()}
	}

	return nil
}
