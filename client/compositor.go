package wl

import "deedles.dev/wlkbd/wire"

const (
	CompositorInterface = "wl_compositor"
	CompositorVersion   = 4
)

const (
	compositorCreateSurface = 0
	compositorCreateRegion  = 1
)

type Compositor struct {
	Proxy
}

func BindCompositor(client *Client, registry *Registry, name, version uint32) *Compositor {
	compositor := &Compositor{Proxy: NewProxy(client)}
	registry.Bind(name, compositor, min(version, CompositorVersion))
	return compositor
}

func (c *Compositor) Interface() string {
	return CompositorInterface
}

func (c *Compositor) CreateSurface() *Surface {
	s := &Surface{Proxy: NewProxy(c.client)}
	c.client.Add(s)

	msg := wire.NewMessage(c, compositorCreateSurface)
	msg.WriteUint(s.ID())
	c.client.Enqueue(msg)

	return s
}

func (c *Compositor) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: CompositorInterface, Type: "event", Op: msg.Op()}
}
