package virtualkeyboard_test

import (
	"io"
	"os"
	"testing"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/internal/wltest"
	"deedles.dev/wlkbd/protocols/virtualkeyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type globals struct {
	client   *wl.Client
	registry *wl.Registry
	seat     *wl.Seat
	manager  *virtualkeyboard.Manager
}

func (g *globals) Global(name uint32, inter string, version uint32) {
	switch inter {
	case wl.SeatInterface:
		g.seat = wl.BindSeat(g.client, g.registry, name, version)
	case virtualkeyboard.ManagerInterface:
		g.manager = virtualkeyboard.BindManager(g.client, g.registry, name, version)
	}
}

func (g *globals) GlobalRemove(name uint32) {}

func TestKeyboard(t *testing.T) {
	server, conn := wltest.NewServer(t, wltest.Config{Globals: wltest.DefaultGlobals()})
	client := wl.NewClient(conn)
	defer client.Close()

	registry := client.Display().GetRegistry()
	g := globals{client: client, registry: registry}
	registry.Listener = &g
	require.NoError(t, client.RoundTrip())
	require.NotNil(t, g.manager)

	keymap := []byte("xkb_keymap {};\x00")
	file, err := os.CreateTemp(t.TempDir(), "keymap")
	require.NoError(t, err)
	defer file.Close()
	_, err = file.Write(keymap)
	require.NoError(t, err)

	kb := g.manager.CreateVirtualKeyboard(g.seat)
	kb.Keymap(virtualkeyboard.KeymapFormatXkbV1, file, uint32(len(keymap)))
	kb.Key(1, 30, virtualkeyboard.KeyStatePressed)
	kb.Key(1, 30, virtualkeyboard.KeyStateReleased)
	kb.Modifiers(1, 0, 0, 0)
	require.NoError(t, client.RoundTrip())
	require.NoError(t, server.Err())

	create := server.Find(virtualkeyboard.ManagerInterface, "create_virtual_keyboard")
	require.Len(t, create, 1)
	assert.Equal(t, []any{g.seat.ID(), kb.ID()}, create[0].Args)

	maps := server.Find(virtualkeyboard.KeyboardInterface, "keymap")
	require.Len(t, maps, 1)
	assert.Equal(t, uint32(1), maps[0].Args[0])
	assert.Equal(t, uint32(len(keymap)), maps[0].Args[2])
	recv := maps[0].Args[1].(*os.File)
	data, err := io.ReadAll(io.NewSectionReader(recv, 0, int64(len(keymap))))
	require.NoError(t, err)
	assert.Equal(t, keymap, data)

	keys := server.Find(virtualkeyboard.KeyboardInterface, "key")
	require.Len(t, keys, 2)
	assert.Equal(t, []any{uint32(1), uint32(30), uint32(1)}, keys[0].Args)
	assert.Equal(t, []any{uint32(1), uint32(30), uint32(0)}, keys[1].Args)

	mods := server.Find(virtualkeyboard.KeyboardInterface, "modifiers")
	require.Len(t, mods, 1)
	assert.Equal(t, []any{uint32(1), uint32(0), uint32(0), uint32(0)}, mods[0].Args)
}
