package surface_test

import (
	"image"
	"io"
	"testing"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/internal/discovery"
	"deedles.dev/wlkbd/internal/surface"
	"deedles.dev/wlkbd/internal/wltest"
	"deedles.dev/wlkbd/shm/shmimage"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listener struct {
	sizes  []image.Point
	closed bool
}

func (lis *listener) Configure(size image.Point) { lis.sizes = append(lis.sizes, size) }
func (lis *listener) Closed()                    { lis.closed = true }

func setup(t *testing.T) (*wltest.Server, *wl.Client, *surface.Overlay, *listener) {
	server, conn := wltest.NewServer(t, wltest.Config{
		Globals: wltest.DefaultGlobals(),
		Outputs: []wltest.Output{{Name: "DP-1", Width: 1920, Height: 1080}},
	})
	client := wl.NewClient(conn)
	t.Cleanup(func() { client.Close() })

	logger := log.New(io.Discard)
	g, err := discovery.Discover(client, logger)
	require.NoError(t, err)

	o, err := surface.Init(g.Compositor, g.LayerShell, g.Shm, g.Outputs[0].Output, surface.Config{
		Namespace:       "wlkbd",
		Height:          300,
		MinimizedHeight: 30,
	}, logger)
	require.NoError(t, err)

	var lis listener
	o.Listener = &lis

	return server, client, o, &lis
}

func fill(c shmimage.ARGB8888Color) func(*shmimage.ARGB8888) error {
	return func(img *shmimage.ARGB8888) error {
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.SetARGB8888(x, y, c)
			}
		}
		return nil
	}
}

func TestInit(t *testing.T) {
	server, client, o, lis := setup(t)
	require.NoError(t, client.RoundTrip())
	require.NoError(t, server.Err())

	get := server.Find("zwlr_layer_shell_v1", "get_layer_surface")
	require.Len(t, get, 1)
	assert.Equal(t, uint32(3), get[0].Args[3])
	assert.Equal(t, "wlkbd", get[0].Args[4])
	assert.NotZero(t, get[0].Args[2])

	anchor := server.Find("zwlr_layer_surface_v1", "set_anchor")
	require.Len(t, anchor, 1)
	assert.Equal(t, uint32(2|4|8), anchor[0].Args[0])

	ki := server.Find("zwlr_layer_surface_v1", "set_keyboard_interactivity")
	require.Len(t, ki, 1)
	assert.Equal(t, uint32(0), ki[0].Args[0])

	zone := server.Find("zwlr_layer_surface_v1", "set_exclusive_zone")
	require.Len(t, zone, 1)
	assert.Equal(t, int32(300), zone[0].Args[0])

	size := server.Find("zwlr_layer_surface_v1", "set_size")
	require.Len(t, size, 1)
	assert.Equal(t, []any{uint32(0), uint32(300)}, size[0].Args)

	assert.Equal(t, []image.Point{{1920, 300}}, lis.sizes)
	assert.Equal(t, image.Pt(1920, 300), o.Size())

	layers := server.Objects("zwlr_layer_surface_v1")
	require.Len(t, layers, 1)
	assert.NotZero(t, server.Acked(layers[0]))
}

func TestInitInvalid(t *testing.T) {
	_, err := surface.Init(nil, nil, nil, nil, surface.Config{Height: 0, MinimizedHeight: 30}, log.New(io.Discard))
	assert.Error(t, err)
}

func TestSubmit(t *testing.T) {
	server, client, o, _ := setup(t)

	require.ErrorIs(t, o.Submit(fill(0)), surface.ErrNotConfigured)

	require.NoError(t, client.RoundTrip())
	for i := range 3 {
		require.NoError(t, o.Submit(fill(shmimage.NewARGB8888Color(uint8(i), 0, 0, 255))))
		require.NoError(t, client.RoundTrip())
	}
	require.NoError(t, server.Err())

	assert.Equal(t, uint64(3), o.Presented())
	// The first buffer is released when the second is committed and
	// is reused for the third frame.
	assert.Len(t, server.Find("wl_shm", "create_pool"), 2)
	assert.Len(t, server.Find("wl_surface", "attach"), 3)

	damage := server.Find("wl_surface", "damage_buffer")
	require.Len(t, damage, 3)
	assert.Equal(t, []any{int32(0), int32(0), int32(1920), int32(300)}, damage[0].Args)

	pool := server.Find("wl_shm", "create_pool")[0]
	assert.Equal(t, int32(1920*300*4), pool.Args[2])

	buf := server.Find("wl_shm_pool", "create_buffer")[0]
	assert.Equal(t, []any{buf.Args[0], int32(0), int32(1920), int32(300), int32(1920 * 4), uint32(0)}, buf.Args)
}

func TestMinimize(t *testing.T) {
	server, client, o, lis := setup(t)
	require.NoError(t, client.RoundTrip())
	require.NoError(t, o.Submit(fill(0)))

	o.Toggle()
	assert.True(t, o.Minimized())
	require.NoError(t, client.RoundTrip())
	assert.Equal(t, image.Pt(1920, 30), o.Size())
	require.NoError(t, o.Submit(fill(0)))
	require.NoError(t, client.RoundTrip())

	zones := server.Find("zwlr_layer_surface_v1", "set_exclusive_zone")
	require.Len(t, zones, 2)
	assert.Equal(t, int32(30), zones[1].Args[0])

	o.Minimize()
	assert.Len(t, server.Find("zwlr_layer_surface_v1", "set_exclusive_zone"), 2)

	o.Restore()
	assert.False(t, o.Minimized())
	require.NoError(t, client.RoundTrip())
	assert.Equal(t, []image.Point{{1920, 300}, {1920, 30}, {1920, 300}}, lis.sizes)

	pools := server.Find("wl_shm", "create_pool")
	require.Len(t, pools, 2)
	assert.Equal(t, int32(1920*30*4), pools[1].Args[2])
	require.NoError(t, server.Err())
}

func TestClosed(t *testing.T) {
	server, client, _, lis := setup(t)
	require.NoError(t, client.RoundTrip())

	server.CloseLayers()
	require.NoError(t, client.RoundTrip())
	assert.True(t, lis.closed)
}
