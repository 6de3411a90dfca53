// Package discovery finds and binds the globals that the keyboard
// overlay needs and settles the geometry of every output.
package discovery

import (
	"errors"
	"fmt"
	"image"
	"slices"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/internal/set"
	"deedles.dev/wlkbd/protocols/layershell"
	"deedles.dev/wlkbd/protocols/virtualkeyboard"
	"deedles.dev/wlkbd/protocols/xdgoutput"
	"deedles.dev/wlkbd/protocols/xdgshell"
	"github.com/charmbracelet/log"
)

// ErrUnsupportedCompositor is returned when the compositor lacks the
// layer shell or xdg_wm_base.
var ErrUnsupportedCompositor = errors.New("unsupported compositor")

// MissingGlobalError is returned when a required global was not
// announced.
type MissingGlobalError struct {
	Interface string
}

func (err MissingGlobalError) Error() string {
	return fmt.Sprintf("compositor does not provide %v", err.Interface)
}

// Output is an output along with its settled geometry.
type Output struct {
	Output    *wl.Output
	XdgOutput *xdgoutput.Output

	Name        string
	Description string

	// Width and Height are the size of the current mode.
	Width, Height int32

	// LogicalWidth and LogicalHeight are reported by xdg-output. They
	// are zero if the compositor doesn't support it.
	LogicalWidth, LogicalHeight int32

	d *Discovering
}

// Size returns the logical size of the output if it is known and the
// size of its current mode otherwise.
func (out *Output) Size() image.Point {
	if (out.LogicalWidth > 0) && (out.LogicalHeight > 0) {
		return image.Pt(int(out.LogicalWidth), int(out.LogicalHeight))
	}
	return image.Pt(int(out.Width), int(out.Height))
}

func (out *Output) String() string {
	s := out.Size()
	if out.Name == "" {
		return fmt.Sprintf("wl_output@%v (%vx%v)", out.Output.ID(), s.X, s.Y)
	}
	return fmt.Sprintf("%v (%vx%v)", out.Name, s.X, s.Y)
}

// Globals holds every bound global.
type Globals struct {
	Registry *wl.Registry

	Compositor       *wl.Compositor
	Shm              *wl.Shm
	Seat             *wl.Seat
	SeatCapabilities wl.SeatCapability
	LayerShell       *layershell.Shell
	WmBase           *xdgshell.WmBase
	OutputManager    *xdgoutput.Manager
	KeyboardManager  *virtualkeyboard.Manager

	Outputs []*Output
}

// Check returns an error if a global that the overlay can't work
// without is missing.
func (g *Globals) Check() error {
	switch {
	case g.LayerShell == nil:
		return fmt.Errorf("%w: %w", ErrUnsupportedCompositor, MissingGlobalError{Interface: layershell.ShellInterface})
	case g.WmBase == nil:
		return fmt.Errorf("%w: %w", ErrUnsupportedCompositor, MissingGlobalError{Interface: xdgshell.WmBaseInterface})
	case g.Compositor == nil:
		return MissingGlobalError{Interface: wl.CompositorInterface}
	case g.Shm == nil:
		return MissingGlobalError{Interface: wl.ShmInterface}
	case g.Seat == nil:
		return MissingGlobalError{Interface: wl.SeatInterface}
	case g.KeyboardManager == nil:
		return MissingGlobalError{Interface: virtualkeyboard.ManagerInterface}
	}
	return nil
}

// DefaultOutput and FirstOutput are special values for the output
// selection. DefaultOutput lets the compositor choose.
const (
	FirstOutput   = ""
	DefaultOutput = "default"
)

// Output selects an output by name. The first output is returned for
// FirstOutput and nil is returned for DefaultOutput.
func (g *Globals) Output(name string) (*Output, error) {
	switch name {
	case DefaultOutput:
		return nil, nil
	case FirstOutput:
		if len(g.Outputs) == 0 {
			return nil, MissingGlobalError{Interface: wl.OutputInterface}
		}
		return g.Outputs[0], nil
	}

	i := slices.IndexFunc(g.Outputs, func(out *Output) bool { return out.Name == name })
	if i < 0 {
		return nil, fmt.Errorf("no output named %q", name)
	}
	return g.Outputs[i], nil
}

// Discovering accumulates globals while the initial registry burst is
// being processed.
type Discovering struct {
	client  *wl.Client
	logger  *log.Logger
	globals Globals
	pending set.Set[uint32]
}

// Discover binds every recognized global and blocks until the geometry
// of every output in the initial registry burst has been settled. The
// globals are returned along with the error from Check so that they
// can be inspected even if the compositor is unsupported.
func Discover(client *wl.Client, logger *log.Logger) (*Globals, error) {
	d := Discovering{
		client:  client,
		logger:  logger,
		pending: set.New[uint32](),
	}
	d.globals.Registry = client.Display().GetRegistry()
	d.globals.Registry.Listener = (*registryListener)(&d)

	// Announcements.
	err := client.RoundTrip()
	if err != nil {
		return nil, fmt.Errorf("get globals: %w", err)
	}

	// Initial events of the bound globals.
	err = client.RoundTrip()
	if err != nil {
		return nil, fmt.Errorf("bind globals: %w", err)
	}

	if d.globals.OutputManager != nil {
		for _, out := range d.globals.Outputs {
			out.XdgOutput = d.globals.OutputManager.GetXdgOutput(out.Output)
			out.XdgOutput.Listener = xdgOutputListener{out}
			d.pending.Add(out.Output.ID())
		}
		err = client.RoundTrip()
		if err != nil {
			return nil, fmt.Errorf("get output geometry: %w", err)
		}
	}

	for _, out := range d.globals.Outputs {
		if d.pending.Has(out.Output.ID()) {
			d.logger.Warn("output geometry not confirmed", "output", out)
		}
		d.logger.Debug("output", "name", out.Name, "size", out.Size(), "description", out.Description)
	}

	return &d.globals, d.globals.Check()
}

type registryListener Discovering

func (lis *registryListener) Global(name uint32, inter string, version uint32) {
	d := (*Discovering)(lis)
	g := &d.globals

	switch inter {
	case wl.CompositorInterface:
		g.Compositor = wl.BindCompositor(d.client, g.Registry, name, version)
	case wl.ShmInterface:
		g.Shm = wl.BindShm(d.client, g.Registry, name, version)
	case wl.SeatInterface:
		if g.Seat != nil {
			d.logger.Debug("ignoring extra seat", "name", name)
			return
		}
		g.Seat = wl.BindSeat(d.client, g.Registry, name, version)
		g.Seat.Listener = (*seatListener)(d)
	case wl.OutputInterface:
		out := Output{d: d}
		out.Output = wl.BindOutput(d.client, g.Registry, name, version)
		out.Output.Listener = outputListener{&out}
		g.Outputs = append(g.Outputs, &out)
		d.pending.Add(out.Output.ID())
	case layershell.ShellInterface:
		g.LayerShell = layershell.BindShell(d.client, g.Registry, name, version)
	case xdgshell.WmBaseInterface:
		g.WmBase = xdgshell.BindWmBase(d.client, g.Registry, name, version)
	case xdgoutput.ManagerInterface:
		g.OutputManager = xdgoutput.BindManager(d.client, g.Registry, name, version)
	case virtualkeyboard.ManagerInterface:
		g.KeyboardManager = virtualkeyboard.BindManager(d.client, g.Registry, name, version)
	default:
		return
	}

	d.logger.Debug("bound global", "interface", inter, "name", name, "version", version)
}

func (lis *registryListener) GlobalRemove(name uint32) {}

type seatListener Discovering

func (lis *seatListener) Capabilities(caps wl.SeatCapability) {
	lis.globals.SeatCapabilities = caps
}

func (lis *seatListener) Name(name string) {}

type outputListener struct{ out *Output }

func (lis outputListener) Geometry(x, y, physicalWidth, physicalHeight, subpixel int32, make, model string, transform wl.OutputTransform) {
	if lis.out.Description == "" {
		lis.out.Description = make + " " + model
	}
}

func (lis outputListener) Mode(flags wl.OutputMode, width, height, refresh int32) {
	if flags.Has(wl.OutputModeCurrent) {
		lis.out.Width, lis.out.Height = width, height
	}
}

// Done ends a burst of either the output's own properties or, from
// xdg-output version 3, its extended ones.
func (lis outputListener) Done() {
	lis.out.d.pending.Delete(lis.out.Output.ID())
}

func (lis outputListener) Scale(factor int32) {}

func (lis outputListener) Name(name string) {
	lis.out.Name = name
}

func (lis outputListener) Description(description string) {
	lis.out.Description = description
}

type xdgOutputListener struct{ out *Output }

func (lis xdgOutputListener) LogicalPosition(x, y int32) {}

func (lis xdgOutputListener) LogicalSize(width, height int32) {
	lis.out.LogicalWidth, lis.out.LogicalHeight = width, height
}

func (lis xdgOutputListener) Done() {
	lis.out.d.pending.Delete(lis.out.Output.ID())
}

func (lis xdgOutputListener) Name(name string) {
	lis.out.Name = name
}

func (lis xdgOutputListener) Description(description string) {
	lis.out.Description = description
}
