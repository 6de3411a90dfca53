// Package xdgshell implements the parts of the xdg-shell protocol that
// a client without toplevel windows needs.
package xdgshell

import (
	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/wire"
)

const (
	WmBaseInterface = "xdg_wm_base"
	WmBaseVersion   = 2
)

const (
	wmBaseDestroy          = 0
	wmBaseCreatePositioner = 1
	wmBaseGetXdgSurface    = 2
	wmBasePong             = 3

	wmBasePing = 0
)

type WmBaseListener interface {
	Ping(serial uint32)
}

type WmBase struct {
	wl.Proxy
	Listener WmBaseListener
}

func BindWmBase(client *wl.Client, registry *wl.Registry, name, version uint32) *WmBase {
	wm := &WmBase{Proxy: wl.NewProxy(client)}
	registry.Bind(name, wm, min(version, WmBaseVersion))
	return wm
}

func (wm *WmBase) Interface() string {
	return WmBaseInterface
}

func (wm *WmBase) Pong(serial uint32) {
	msg := wire.NewMessage(wm, wmBasePong)
	msg.WriteUint(serial)
	wm.Client().Enqueue(msg)
}

func (wm *WmBase) Destroy() {
	wm.Client().Enqueue(wire.NewMessage(wm, wmBaseDestroy))
	wm.Client().Destroy(wm)
}

func (wm *WmBase) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case wmBasePing:
		serial := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if wm.Listener != nil {
			wm.Listener.Ping(serial)
			return nil
		}
		wm.Pong(serial)
		return nil

	default:
		return wire.UnknownOpError{Interface: WmBaseInterface, Type: "event", Op: msg.Op()}
	}
}
