// Package app runs the keyboard overlay.
package app

import (
	"context"
	"fmt"
	"image"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/internal/discovery"
	"deedles.dev/wlkbd/internal/input"
	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/internal/layout"
	"deedles.dev/wlkbd/internal/render"
	"deedles.dev/wlkbd/internal/surface"
	"deedles.dev/wlkbd/keymap"
	"deedles.dev/wlkbd/pointer"
	"deedles.dev/wlkbd/protocols/virtualkeyboard"
	"deedles.dev/wlkbd/shm/shmimage"
	"deedles.dev/wlkbd/wire"
	"github.com/charmbracelet/log"
)

type Config struct {
	Names   keymap.Names
	Output  string
	Surface surface.Config

	CursorTheme string
	CursorSize  int
}

// Run connects to the compositor and shows the keyboard until ctx is
// canceled or the compositor closes the overlay.
func Run(ctx context.Context, cfg Config, logger *log.Logger) error {
	km, err := keymap.Compile(cfg.Names)
	if err != nil {
		return fmt.Errorf("compile keymap: %w", err)
	}

	client, err := wl.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	return RunClient(ctx, client, km, cfg, logger)
}

type state struct {
	cfg    Config
	logger *log.Logger

	client   *wl.Client
	globals  *discovery.Globals
	keymap   *keymap.Keymap
	renderer *render.Renderer
	overlay  *surface.Overlay
	keyboard *virtualkeyboard.Keyboard
	input    *input.Pipeline
	pointer  *wl.Pointer
	touch    *wl.Touch
	cursor   *cursor

	// time is the timestamp of the latest input event. Events without
	// their own timestamp reuse it.
	time uint32

	running bool
	err     error
}

// RunClient is like Run but uses an existing connection and keymap.
func RunClient(ctx context.Context, client *wl.Client, km *keymap.Keymap, cfg Config, logger *log.Logger) error {
	s := state{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		keymap:  km,
		running: true,
	}
	defer s.destroy()

	stop := context.AfterFunc(ctx, func() { client.Close() })
	defer stop()

	err := s.init()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	for s.running {
		err := client.Dispatch()
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("interrupted")
				return nil
			}
			return err
		}
	}
	if s.err != nil {
		return s.err
	}

	logger.Info("overlay closed")
	return client.Flush()
}

func (s *state) init() error {
	globals, err := discovery.Discover(s.client, s.logger)
	if err != nil {
		return fmt.Errorf("discover globals: %w", err)
	}
	s.globals = globals
	s.globals.WmBase.Listener = (*wmBaseListener)(s)

	out, err := globals.Output(s.cfg.Output)
	if err != nil {
		return err
	}
	var output *wl.Output
	if out != nil {
		output = out.Output
		s.logger.Info("using output", "output", out)
	}

	err = s.initKeyboard()
	if err != nil {
		return err
	}

	kl := layout.For(s.cfg.Names.Layout)
	s.renderer, err = render.New(kl)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	s.input = input.New(s.keyboard, kl, s.logger)
	s.input.Listener = (*inputListener)(s)

	s.overlay, err = surface.Init(globals.Compositor, globals.LayerShell, globals.Shm, output, s.cfg.Surface, s.logger)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	s.overlay.Listener = (*overlayListener)(s)

	s.initSeat()

	return s.client.Flush()
}

// initKeyboard creates the virtual keyboard and uploads the keymap,
// which has to happen before any key is sent.
func (s *state) initKeyboard() error {
	s.keyboard = s.globals.KeyboardManager.CreateVirtualKeyboard(s.globals.Seat)

	file, err := s.keymap.File()
	if err != nil {
		return fmt.Errorf("create keymap file: %w", err)
	}
	defer file.Close()

	s.keyboard.Keymap(virtualkeyboard.KeymapFormatXkbV1, file, s.keymap.Size())
	s.logger.Debug("uploaded keymap", "layout", s.cfg.Names.Layout, "size", s.keymap.Size())
	return nil
}

func (s *state) initSeat() {
	caps := s.globals.SeatCapabilities
	s.logger.Debug("seat", "capabilities", caps)

	if caps.Has(wl.SeatCapabilityPointer) {
		s.pointer = s.globals.Seat.GetPointer()
		s.pointer.Listener = (*pointerListener)(s)

		c, err := loadCursor(s.globals.Compositor, s.globals.Shm, s.cfg.CursorTheme, s.cfg.CursorSize)
		if err != nil {
			s.logger.Warn("no cursor", "err", err)
		}
		s.cursor = c
	}

	if caps.Has(wl.SeatCapabilityTouch) {
		s.touch = s.globals.Seat.GetTouch()
		s.touch.Listener = (*touchListener)(s)
	}
}

func (s *state) destroy() {
	if s.cursor != nil {
		s.cursor.destroy()
	}
	if s.pointer != nil {
		s.pointer.Release()
	}
	if s.touch != nil {
		s.touch.Release()
	}
	if s.overlay != nil {
		s.overlay.Destroy()
	}
	if s.keyboard != nil {
		s.keyboard.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Close()
	}
}

func (s *state) fail(err error) {
	if s.err == nil {
		s.err = err
	}
	s.running = false
}

// redraw renders the keyboard in its current state and submits it.
func (s *state) redraw() {
	err := s.overlay.Submit(func(img *shmimage.ARGB8888) error {
		if s.overlay.Minimized() {
			return s.renderer.DrawMinimized(img)
		}
		return s.renderer.Draw(img, s.input.Modifiers())
	})
	if err != nil {
		s.fail(fmt.Errorf("redraw: %w", err))
		return
	}
	s.logger.Debug("redraw", "size", s.overlay.Size(), "minimized", s.overlay.Minimized(), "presented", s.overlay.Presented())
}

type wmBaseListener state

func (s *wmBaseListener) Ping(serial uint32) {
	s.globals.WmBase.Pong(serial)
}

type overlayListener state

func (s *overlayListener) Configure(size image.Point) {
	s.input.Resize(size)
	(*state)(s).redraw()
}

func (s *overlayListener) Closed() {
	s.running = false
}

type inputListener state

func (s *inputListener) ModifiersChanged(mods keys.Modifiers) {
	s.logger.Debug("modifiers changed", "mods", mods)
	(*state)(s).redraw()
}

func (s *inputListener) ToggleMinimize() {
	s.overlay.Toggle()
	s.input.Minimized = s.overlay.Minimized()
	s.logger.Debug("toggled", "minimized", s.overlay.Minimized())
}

type pointerListener state

func (s *pointerListener) Enter(serial uint32, surface *wl.Surface, x, y wire.Fixed) {
	if s.cursor != nil {
		s.cursor.set(s.pointer, serial)
	}
	s.input.PointerMotion(x, y)
}

func (s *pointerListener) Leave(serial uint32, surface *wl.Surface) {
	s.input.PointerLeave(s.time)
}

func (s *pointerListener) Motion(time uint32, x, y wire.Fixed) {
	s.time = time
	s.input.PointerMotion(x, y)
}

func (s *pointerListener) Button(serial, time uint32, button uint32, bstate wl.PointerButtonState) {
	s.time = time
	s.input.PointerButton(time, pointer.Button(button), bstate == wl.PointerButtonStatePressed)
}

func (s *pointerListener) Axis(time uint32, axis wl.PointerAxis, value wire.Fixed) {}
func (s *pointerListener) Frame()                                                {}
func (s *pointerListener) AxisSource(axisSource wl.PointerAxisSource)            {}
func (s *pointerListener) AxisStop(time uint32, axis wl.PointerAxis)             {}
func (s *pointerListener) AxisDiscrete(axis wl.PointerAxis, discrete int32)      {}

type touchListener state

func (s *touchListener) Down(serial, time uint32, surface *wl.Surface, id int32, x, y wire.Fixed) {
	s.time = time
	s.input.TouchDown(time, id, x, y)
}

func (s *touchListener) Up(serial, time uint32, id int32) {
	s.time = time
	s.input.TouchUp(time, id)
}

func (s *touchListener) Motion(time uint32, id int32, x, y wire.Fixed) {
	s.time = time
	s.input.TouchMotion(id, x, y)
}

func (s *touchListener) Frame() {}

func (s *touchListener) Cancel() {
	s.input.TouchCancel(s.time)
}
