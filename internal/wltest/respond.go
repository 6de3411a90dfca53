package wltest

import (
	"deedles.dev/wlkbd/wire"
)

func (s *Server) respond(obj *object, method string, args []any) error {
	switch obj.iface + "." + method {
	case "wl_display.sync":
		id := args[0].(uint32)
		err := s.send(id, "done", s.nextSerial())
		if err != nil {
			return err
		}
		delete(s.objects, id)
		return s.send(1, "delete_id", id)

	case "wl_display.get_registry":
		id := args[0].(uint32)
		s.objects[id].version = 1
		for name := uint32(1); name <= uint32(len(s.globals)); name++ {
			g := s.globals[name]
			err := s.send(id, "global", name, g.Interface, g.Version)
			if err != nil {
				return err
			}
		}
		return nil

	case "wl_registry.bind":
		return s.bind(args[0].(uint32), args[1].(wire.NewID))

	case "zxdg_output_manager_v1.get_xdg_output":
		id := args[0].(uint32)
		out, ok := s.objects[args[1].(uint32)]
		if !ok {
			return nil
		}
		o := out.data.(Output)
		w, h := o.LogicalWidth, o.LogicalHeight
		if (w == 0) || (h == 0) {
			w, h = o.Width, o.Height
		}
		if err := s.send(id, "logical_position", int32(0), int32(0)); err != nil {
			return err
		}
		if err := s.send(id, "logical_size", w, h); err != nil {
			return err
		}
		if err := s.send(id, "name", o.Name); err != nil {
			return err
		}
		switch {
		case s.cfg.NoOutputDone:
			return nil
		case obj.version >= 3:
			// zxdg_output_v1.done is deprecated from version 3.
			if out.version < 2 {
				return nil
			}
			return s.send(out.id, "done")
		default:
			return s.send(id, "done")
		}

	case "wl_compositor.create_surface":
		s.objects[args[0].(uint32)].data = &surfaceState{}
		return nil

	case "wl_surface.attach":
		state := obj.data.(*surfaceState)
		state.pending = args[0].(uint32)
		return nil

	case "wl_surface.frame":
		state := obj.data.(*surfaceState)
		state.frames = append(state.frames, args[0].(uint32))
		return nil

	case "wl_surface.commit":
		return s.commit(obj)

	case "zwlr_layer_shell_v1.get_layer_surface":
		id := args[0].(uint32)
		surface := args[1].(uint32)
		s.objects[id].data = &layerState{surface: surface, output: args[2].(uint32)}
		s.objects[surface].data.(*surfaceState).layer = id
		return nil

	case "zwlr_layer_surface_v1.set_size":
		state := obj.data.(*layerState)
		state.width = args[0].(uint32)
		state.height = args[1].(uint32)
		return nil

	case "zwlr_layer_surface_v1.ack_configure":
		state := obj.data.(*layerState)
		state.acked = args[0].(uint32)
		return nil
	}

	return nil
}

func (s *Server) bind(name uint32, nid wire.NewID) error {
	obj := s.objects[nid.ID]

	g, ok := s.globals[name]
	if !ok || (g.Interface != nid.Interface) || (nid.Version > g.Version) {
		delete(s.objects, nid.ID)
		return s.send(1, "error", nid.ID, uint32(0), "invalid bind")
	}

	switch nid.Interface {
	case "wl_shm":
		if err := s.send(nid.ID, "format", uint32(0)); err != nil {
			return err
		}
		return s.send(nid.ID, "format", uint32(1))

	case "wl_seat":
		return s.send(nid.ID, "capabilities", uint32(1|4))

	case "wl_output":
		index := int(name) - len(s.cfg.Globals) - 1
		o := s.cfg.Outputs[index]
		obj.data = o

		err := s.send(nid.ID, "geometry", int32(0), int32(0), int32(0), int32(0), int32(0), "wltest", o.Name, int32(0))
		if err != nil {
			return err
		}
		err = s.send(nid.ID, "mode", uint32(1|2), o.Width, o.Height, int32(60000))
		if err != nil {
			return err
		}
		if nid.Version >= 4 {
			err = s.send(nid.ID, "name", o.Name)
			if err != nil {
				return err
			}
		}
		if (nid.Version >= 2) && !s.cfg.NoOutputDone {
			return s.send(nid.ID, "done")
		}
		return nil

	case "xdg_wm_base":
		if s.cfg.PingOnBind {
			return s.send(nid.ID, "ping", s.nextSerial())
		}
		return nil
	}

	return nil
}

func (s *Server) commit(obj *object) error {
	state := obj.data.(*surfaceState)

	if state.layer != 0 {
		if layer, ok := s.objects[state.layer]; ok {
			err := s.configure(layer)
			if err != nil {
				return err
			}
		}
	}

	if (state.pending != 0) && (state.pending != state.committed) {
		if _, ok := s.objects[state.committed]; ok {
			err := s.send(state.committed, "release")
			if err != nil {
				return err
			}
		}
		state.committed = state.pending
	}
	state.pending = 0

	for _, cb := range state.frames {
		err := s.send(cb, "done", s.nextSerial())
		if err != nil {
			return err
		}
		delete(s.objects, cb)
		err = s.send(1, "delete_id", cb)
		if err != nil {
			return err
		}
	}
	state.frames = state.frames[:0]

	return nil
}

func (s *Server) configure(layer *object) error {
	state := layer.data.(*layerState)

	w, h := state.width, state.height
	if (w == 0) && (len(s.cfg.Outputs) > 0) {
		o := s.cfg.Outputs[0]
		if out, ok := s.objects[state.output]; ok {
			o = out.data.(Output)
		}
		w = uint32(o.Width)
		if o.LogicalWidth != 0 {
			w = uint32(o.LogicalWidth)
		}
	}
	if state.sent && (w == state.sentW) && (h == state.sentH) {
		return nil
	}

	state.sent = true
	state.sentW, state.sentH = w, h
	state.serial = s.nextSerial()
	return s.send(layer.id, "configure", state.serial, w, h)
}

// CloseLayers sends zwlr_layer_surface_v1.closed to every layer
// surface.
func (s *Server) CloseLayers() {
	for _, id := range s.Objects("zwlr_layer_surface_v1") {
		s.Send(id, "closed")
	}
}

// Ping sends xdg_wm_base.ping with the given serial to every bound
// xdg_wm_base.
func (s *Server) Ping(serial uint32) {
	for _, id := range s.Objects("xdg_wm_base") {
		s.Send(id, "ping", serial)
	}
}

// Acked returns the serial that the given layer surface last
// acknowledged.
func (s *Server) Acked(id uint32) uint32 {
	s.m.Lock()
	defer s.m.Unlock()

	obj, ok := s.objects[id]
	if !ok {
		return 0
	}
	return obj.data.(*layerState).acked
}
