package wl

import "deedles.dev/wlkbd/wire"

const (
	OutputInterface = "wl_output"
	OutputVersion   = 4
)

const (
	outputRelease = 0

	outputGeometry    = 0
	outputMode        = 1
	outputDone        = 2
	outputScale       = 3
	outputName        = 4
	outputDescription = 5
)

type OutputMode uint32

const (
	OutputModeCurrent OutputMode = 1 << iota
	OutputModePreferred
)

func (m OutputMode) Has(other OutputMode) bool {
	return m&other == other
}

type OutputTransform int32

const (
	OutputTransformNormal OutputTransform = iota
	OutputTransform90
	OutputTransform180
	OutputTransform270
	OutputTransformFlipped
	OutputTransformFlipped90
	OutputTransformFlipped180
	OutputTransformFlipped270
)

type OutputListener interface {
	Geometry(x, y, physicalWidth, physicalHeight, subpixel int32, make, model string, transform OutputTransform)
	Mode(flags OutputMode, width, height, refresh int32)
	Done()
	Scale(factor int32)
	Name(name string)
	Description(description string)
}

type Output struct {
	Proxy
	Listener OutputListener
}

func BindOutput(client *Client, registry *Registry, name, version uint32) *Output {
	output := &Output{Proxy: NewProxy(client)}
	registry.Bind(name, output, min(version, OutputVersion))
	return output
}

func (out *Output) Interface() string {
	return OutputInterface
}

func (out *Output) Release() {
	out.client.Enqueue(wire.NewMessage(out, outputRelease))
	out.client.Destroy(out)
}

func (out *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case outputGeometry:
		x := msg.ReadInt()
		y := msg.ReadInt()
		pw := msg.ReadInt()
		ph := msg.ReadInt()
		subpixel := msg.ReadInt()
		make := msg.ReadString()
		model := msg.ReadString()
		transform := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Listener != nil {
			out.Listener.Geometry(x, y, pw, ph, subpixel, make, model, OutputTransform(transform))
		}

	case outputMode:
		flags := msg.ReadUint()
		w := msg.ReadInt()
		h := msg.ReadInt()
		refresh := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Listener != nil {
			out.Listener.Mode(OutputMode(flags), w, h, refresh)
		}

	case outputDone:
		if out.Listener != nil {
			out.Listener.Done()
		}

	case outputScale:
		factor := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if out.Listener != nil {
			out.Listener.Scale(factor)
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
