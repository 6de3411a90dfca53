package app_test

import (
	"context"
	"io"
	"slices"
	"testing"
	"time"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/internal/app"
	"deedles.dev/wlkbd/internal/discovery"
	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/internal/surface"
	"deedles.dev/wlkbd/internal/wltest"
	"deedles.dev/wlkbd/keymap"
	"deedles.dev/wlkbd/pointer"
	"deedles.dev/wlkbd/wire"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = 5 * time.Second
	tick    = 10 * time.Millisecond
)

type run struct {
	server *wltest.Server
	keymap *keymap.Keymap
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, scfg wltest.Config, output string) *run {
	server, conn := wltest.NewServer(t, scfg)
	client := wl.NewClient(conn)

	names := keymap.DefaultNames(keymap.EnglishUs)
	km, err := keymap.Compile(names)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	r := run{
		server: server,
		keymap: km,
		cancel: cancel,
		done:   make(chan error, 1),
	}

	cfg := app.Config{
		Names:  names,
		Output: output,
		Surface: surface.Config{
			Namespace:       "wlkbd",
			Height:          300,
			MinimizedHeight: 30,
		},
		CursorTheme: "wlkbd-test-missing",
		CursorSize:  24,
	}
	go func() { r.done <- app.RunClient(ctx, client, km, cfg, log.New(io.Discard)) }()
	t.Cleanup(func() {
		cancel()
		client.Close()
	})

	return &r
}

func (r *run) wait(t *testing.T) error {
	select {
	case err := <-r.done:
		return err
	case <-time.After(timeout):
		t.Fatal("timed out waiting for the event loop to stop")
		return nil
	}
}

// overlay returns the ID of the overlay's wl_surface once it exists.
func (r *run) overlay(t *testing.T) uint32 {
	var get []wltest.Request
	require.Eventually(t, func() bool {
		get = r.server.Find("zwlr_layer_shell_v1", "get_layer_surface")
		return len(get) > 0
	}, timeout, tick)
	return get[0].Args[1].(uint32)
}

func (r *run) attaches(id uint32) []wltest.Request {
	return slices.DeleteFunc(r.server.Find("wl_surface", "attach"), func(req wltest.Request) bool {
		return req.ID != id
	})
}

func (r *run) waitAttaches(t *testing.T, id uint32, n int) {
	require.Eventually(t, func() bool { return len(r.attaches(id)) >= n }, timeout, tick)
}

func (r *run) pointer(t *testing.T) uint32 {
	var ids []uint32
	require.Eventually(t, func() bool {
		ids = r.server.Objects("wl_pointer")
		return len(ids) > 0
	}, timeout, tick)
	return ids[0]
}

func (r *run) click(ptr, surface uint32, x, y int, time uint32) {
	r.server.Send(ptr, "enter", uint32(1), surface, wire.FixedInt(x), wire.FixedInt(y))
	r.server.Send(ptr, "button", uint32(2), time, uint32(pointer.ButtonLeft), uint32(wl.PointerButtonStatePressed))
	r.server.Send(ptr, "button", uint32(3), time+1, uint32(pointer.ButtonLeft), uint32(wl.PointerButtonStateReleased))
}

func index(reqs []wltest.Request, iface, method string) int {
	return slices.IndexFunc(reqs, func(req wltest.Request) bool {
		return (req.Interface == iface) && (req.Method == method)
	})
}

func defaultConfig() wltest.Config {
	return wltest.Config{
		Globals: wltest.DefaultGlobals(),
		Outputs: []wltest.Output{{Name: "DP-1", Width: 1920, Height: 1080}},
	}
}

func TestRun(t *testing.T) {
	r := start(t, defaultConfig(), "")
	id := r.overlay(t)
	r.waitAttaches(t, id, 1)

	reqs := r.server.Requests()
	ack := index(reqs, "zwlr_layer_surface_v1", "ack_configure")
	attach := index(reqs, "wl_surface", "attach")
	require.GreaterOrEqual(t, ack, 0)
	assert.Less(t, ack, attach)

	km := r.server.Find("zwp_virtual_keyboard_v1", "keymap")
	require.Len(t, km, 1)
	assert.Equal(t, uint32(1), km[0].Args[0])
	assert.Equal(t, r.keymap.Size(), km[0].Args[2])

	pools := r.server.Find("wl_shm", "create_pool")
	require.NotEmpty(t, pools)
	assert.Equal(t, int32(1920*300*4), pools[len(pools)-1].Args[2])

	// The grid spans x 1520 to 1820 on a 1920x300 surface. Shift is
	// the first key of the bottom row.
	ptr := r.pointer(t)
	r.click(ptr, id, 1521, 250, 100)

	require.Eventually(t, func() bool {
		return len(r.server.Find("zwp_virtual_keyboard_v1", "modifiers")) > 0
	}, timeout, tick)
	assert.Equal(t, []any{uint32(keys.Shift), uint32(0), uint32(0), uint32(0)}, r.server.Find("zwp_virtual_keyboard_v1", "modifiers")[0].Args)

	keyEvents := r.server.Find("zwp_virtual_keyboard_v1", "key")
	require.Len(t, keyEvents, 2)
	assert.Equal(t, []any{uint32(100), uint32(keys.LeftShift), uint32(1)}, keyEvents[0].Args)
	assert.Equal(t, []any{uint32(101), uint32(keys.LeftShift), uint32(0)}, keyEvents[1].Args)
	assert.Less(t, index(r.server.Requests(), "zwp_virtual_keyboard_v1", "keymap"), index(r.server.Requests(), "zwp_virtual_keyboard_v1", "key"))

	// The modifier change is redrawn.
	r.waitAttaches(t, id, 2)

	// Minimize.
	r.click(ptr, id, 1900, 150, 200)
	require.Eventually(t, func() bool {
		zones := r.server.Find("zwlr_layer_surface_v1", "set_exclusive_zone")
		return (len(zones) == 2) && (zones[1].Args[0] == int32(30))
	}, timeout, tick)
	r.waitAttaches(t, id, 3)
	assert.Len(t, r.server.Find("zwp_virtual_keyboard_v1", "key"), 2)

	pools = r.server.Find("wl_shm", "create_pool")
	assert.Equal(t, int32(1920*30*4), pools[len(pools)-1].Args[2])

	r.server.CloseLayers()
	assert.NoError(t, r.wait(t))
	assert.NoError(t, r.server.Err())
}

func TestRunOutput(t *testing.T) {
	cfg := defaultConfig()
	cfg.Outputs = append(cfg.Outputs, wltest.Output{Name: "HDMI-A-1", Width: 2560, Height: 1440, LogicalWidth: 1280, LogicalHeight: 720})

	r := start(t, cfg, "HDMI-A-1")
	id := r.overlay(t)
	r.waitAttaches(t, id, 1)

	pools := r.server.Find("wl_shm", "create_pool")
	assert.Equal(t, int32(1280*300*4), pools[len(pools)-1].Args[2])

	r.cancel()
	assert.NoError(t, r.wait(t))
}

func TestRunUnknownOutput(t *testing.T) {
	r := start(t, defaultConfig(), "eDP-1")
	assert.Error(t, r.wait(t))
	assert.Empty(t, r.server.Find("wl_compositor", "create_surface"))
}

func TestRunUnsupported(t *testing.T) {
	cfg := defaultConfig()
	cfg.Globals = slices.DeleteFunc(cfg.Globals, func(g wltest.Global) bool {
		return g.Interface == "zwlr_layer_shell_v1"
	})

	r := start(t, cfg, "")
	err := r.wait(t)
	assert.ErrorIs(t, err, discovery.ErrUnsupportedCompositor)
	assert.Empty(t, r.server.Find("wl_compositor", "create_surface"))
	assert.Empty(t, r.server.Find("zwp_virtual_keyboard_manager_v1", "create_virtual_keyboard"))
}

func TestRunInterrupt(t *testing.T) {
	r := start(t, defaultConfig(), "")
	r.waitAttaches(t, r.overlay(t), 1)

	r.cancel()
	assert.NoError(t, r.wait(t))
}

func TestRunPing(t *testing.T) {
	cfg := defaultConfig()
	cfg.PingOnBind = true

	r := start(t, cfg, "")
	r.waitAttaches(t, r.overlay(t), 1)
	r.server.Ping(77)

	require.Eventually(t, func() bool {
		return slices.ContainsFunc(r.server.Find("xdg_wm_base", "pong"), func(req wltest.Request) bool {
			return req.Args[0] == uint32(77)
		})
	}, timeout, tick)
	assert.Len(t, r.server.Find("xdg_wm_base", "pong"), 2)

	r.cancel()
	assert.NoError(t, r.wait(t))
}
