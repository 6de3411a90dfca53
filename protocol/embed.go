package protocol

import (
	"embed"
	"encoding/xml"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"sync"
)

//go:embed xml/*.xml
var files embed.FS

var (
	loadOnce   sync.Once
	interfaces map[string]Interface
	protocols  []Protocol
	loadErr    error
)

func load() {
	paths, err := fs.Glob(files, "xml/*.xml")
	if err != nil {
		loadErr = err
		return
	}

	interfaces = make(map[string]Interface)
	for _, p := range paths {
		data, err := files.ReadFile(p)
		if err != nil {
			loadErr = fmt.Errorf("read %q: %w", path.Base(p), err)
			return
		}

		var proto Protocol
		err = xml.Unmarshal(data, &proto)
		if err != nil {
			loadErr = fmt.Errorf("unmarshal %q: %w", path.Base(p), err)
			return
		}
		protocols = append(protocols, proto)

		for _, iface := range proto.Interfaces {
			interfaces[iface.Name] = iface
		}
	}
}

// Protocols returns the protocol descriptions that are built into
// the module.
func Protocols() ([]Protocol, error) {
	loadOnce.Do(load)
	return protocols, loadErr
}

// Lookup finds the description of a built-in interface by name.
func Lookup(name string) (Interface, bool) {
	loadOnce.Do(load)
	iface, ok := interfaces[name]
	return iface, ok
}

// RequestName returns the name of the request with the given opcode
// on the named interface. If it isn't known, the opcode is returned
// formatted as a number.
func RequestName(iface string, op uint16) string {
	i, ok := Lookup(iface)
	if !ok || int(op) >= len(i.Requests) {
		return strconv.FormatUint(uint64(op), 10)
	}
	return i.Requests[op].Name
}

// EventName is like RequestName but for events.
func EventName(iface string, op uint16) string {
	i, ok := Lookup(iface)
	if !ok || int(op) >= len(i.Events) {
		return strconv.FormatUint(uint64(op), 10)
	}
	return i.Events[op].Name
}

// Event returns the opcode of the named event.
func (i Interface) Event(name string) (uint16, bool) {
	for op, e := range i.Events {
		if e.Name == name {
			return uint16(op), true
		}
	}
	return 0, false
}
