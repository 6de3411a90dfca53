package xdgshell_test

import (
	"testing"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/internal/wltest"
	"deedles.dev/wlkbd/protocols/xdgshell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type globals struct {
	client   *wl.Client
	registry *wl.Registry
	wmBase   *xdgshell.WmBase
}

func (g *globals) Global(name uint32, inter string, version uint32) {
	if inter == xdgshell.WmBaseInterface {
		g.wmBase = xdgshell.BindWmBase(g.client, g.registry, name, version)
	}
}

func (g *globals) GlobalRemove(name uint32) {}

type pingListener struct {
	serials []uint32
}

func (lis *pingListener) Ping(serial uint32) {
	lis.serials = append(lis.serials, serial)
}

func TestPingPong(t *testing.T) {
	server, conn := wltest.NewServer(t, wltest.Config{
		Globals:    wltest.DefaultGlobals(),
		PingOnBind: true,
	})
	client := wl.NewClient(conn)
	defer client.Close()

	registry := client.Display().GetRegistry()
	g := globals{client: client, registry: registry}
	registry.Listener = &g
	require.NoError(t, client.RoundTrip())
	require.NotNil(t, g.wmBase)

	// Without a listener, pings are answered automatically.
	require.NoError(t, client.RoundTrip())
	require.NoError(t, client.RoundTrip())
	pongs := server.Find(xdgshell.WmBaseInterface, "pong")
	require.Len(t, pongs, 1)

	lis := pingListener{}
	g.wmBase.Listener = &lis
	server.Ping(77)
	require.NoError(t, client.RoundTrip())
	assert.Equal(t, []uint32{77}, lis.serials)
	assert.Len(t, server.Find(xdgshell.WmBaseInterface, "pong"), 1)
}
