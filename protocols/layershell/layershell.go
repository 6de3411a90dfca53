// Package layershell implements the client side of the
// wlr-layer-shell-unstable-v1 protocol, which places surfaces in
// layers above or below normal windows.
package layershell

import (
	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/wire"
)

const (
	ShellInterface = "zwlr_layer_shell_v1"
	ShellVersion   = 4

	SurfaceInterface = "zwlr_layer_surface_v1"
)

const (
	shellGetLayerSurface = 0
	shellDestroy         = 1
)

const (
	surfaceSetSize                  = 0
	surfaceSetAnchor                = 1
	surfaceSetExclusiveZone         = 2
	surfaceSetMargin                = 3
	surfaceSetKeyboardInteractivity = 4
	surfaceGetPopup                 = 5
	surfaceAckConfigure             = 6
	surfaceDestroy                  = 7
	surfaceSetLayer                 = 8

	surfaceConfigure = 0
	surfaceClosed    = 1
)

type Layer uint32

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	}

	return "unknown"
}

type Anchor uint32

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

type KeyboardInteractivity uint32

const (
	KeyboardInteractivityNone KeyboardInteractivity = iota
	KeyboardInteractivityExclusive
	KeyboardInteractivityOnDemand
)

type Shell struct {
	wl.Proxy
}

func BindShell(client *wl.Client, registry *wl.Registry, name, version uint32) *Shell {
	shell := &Shell{Proxy: wl.NewProxy(client)}
	registry.Bind(name, shell, min(version, ShellVersion))
	return shell
}

func (shell *Shell) Interface() string {
	return ShellInterface
}

// GetLayerSurface assigns the layer surface role to surface. If output
// is nil, the compositor picks one.
func (shell *Shell) GetLayerSurface(surface *wl.Surface, output *wl.Output, layer Layer, namespace string) *Surface {
	ls := &Surface{Proxy: wl.NewProxy(shell.Client())}
	shell.Client().Add(ls)

	msg := wire.NewMessage(shell, shellGetLayerSurface)
	msg.WriteUint(ls.ID())
	msg.WriteObject(surface)
	if output == nil {
		msg.WriteObject(nil)
	} else {
		msg.WriteObject(output)
	}
	msg.WriteUint(uint32(layer))
	msg.WriteString(namespace)
	shell.Client().Enqueue(msg)

	return ls
}

func (shell *Shell) Destroy() {
	shell.Client().Enqueue(wire.NewMessage(shell, shellDestroy))
	shell.Client().Destroy(shell)
}

func (shell *Shell) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ShellInterface, Type: "event", Op: msg.Op()}
}

type SurfaceListener interface {
	Configure(serial, width, height uint32)
	Closed()
}

type Surface struct {
	wl.Proxy
	Listener SurfaceListener
}

func (ls *Surface) Interface() string {
	return SurfaceInterface
}

// SetSize sets the size of the surface. A width or height of zero
// means that the surface should be stretched between the anchors on
// that axis.
func (ls *Surface) SetSize(width, height uint32) {
	msg := wire.NewMessage(ls, surfaceSetSize)
	msg.WriteUint(width)
	msg.WriteUint(height)
	ls.Client().Enqueue(msg)
}

func (ls *Surface) SetAnchor(anchor Anchor) {
	msg := wire.NewMessage(ls, surfaceSetAnchor)
	msg.WriteUint(uint32(anchor))
	ls.Client().Enqueue(msg)
}

// SetExclusiveZone asks the compositor to keep other surfaces out of
// zone pixels along the anchored edge.
func (ls *Surface) SetExclusiveZone(zone int32) {
	msg := wire.NewMessage(ls, surfaceSetExclusiveZone)
	msg.WriteInt(zone)
	ls.Client().Enqueue(msg)
}

func (ls *Surface) SetMargin(top, right, bottom, left int32) {
	msg := wire.NewMessage(ls, surfaceSetMargin)
	msg.WriteInt(top)
	msg.WriteInt(right)
	msg.WriteInt(bottom)
	msg.WriteInt(left)
	ls.Client().Enqueue(msg)
}

func (ls *Surface) SetKeyboardInteractivity(ki KeyboardInteractivity) {
	msg := wire.NewMessage(ls, surfaceSetKeyboardInteractivity)
	msg.WriteUint(uint32(ki))
	ls.Client().Enqueue(msg)
}

func (ls *Surface) AckConfigure(serial uint32) {
	msg := wire.NewMessage(ls, surfaceAckConfigure)
	msg.WriteUint(serial)
	ls.Client().Enqueue(msg)
}

func (ls *Surface) SetLayer(layer Layer) {
	msg := wire.NewMessage(ls, surfaceSetLayer)
	msg.WriteUint(uint32(layer))
	ls.Client().Enqueue(msg)
}

func (ls *Surface) Destroy() {
	ls.Client().Enqueue(wire.NewMessage(ls, surfaceDestroy))
	ls.Client().Destroy(ls)
}

func (ls *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case surfaceConfigure:
		serial := msg.ReadUint()
		w := msg.ReadUint()
		h := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if ls.Listener != nil {
			ls.Listener.Configure(serial, w, h)
		}
		return nil

	case surfaceClosed:
		if ls.Listener != nil {
			ls.Listener.Closed()
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: SurfaceInterface, Type: "event", Op: msg.Op()}
	}
}
