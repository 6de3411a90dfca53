package main

import (
	"fmt"
	"strconv"

	"deedles.dev/wlkbd/protocol"
	"github.com/spf13/cobra"
)

func newProtocolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "protocols [interface]",
		Short:  "List the protocol interfaces that wlkbd knows about",
		Long:   "List the protocol interfaces that wlkbd knows about, or the messages and enums of one of them.",
		Args:   cobra.MaximumNArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return describeInterface(cmd, args[0])
			}

			protos, err := protocol.Protocols()
			if err != nil {
				return fmt.Errorf("load protocols: %w", err)
			}

			t := newTable("PROTOCOL", "INTERFACE", "VERSION", "REQUESTS", "EVENTS")
			for _, proto := range protos {
				for _, iface := range proto.Interfaces {
					t.Row(
						proto.Name,
						iface.Name,
						strconv.Itoa(iface.Version),
						strconv.Itoa(len(iface.Requests)),
						strconv.Itoa(len(iface.Events)),
					)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t)
			return err
		},
	}
}

func describeInterface(cmd *cobra.Command, name string) error {
	iface, ok := protocol.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown interface %q", name)
	}

	msgs := newTable("KIND", "OPCODE", "NAME", "SINCE", "ARGS")
	addOps := func(kind string, ops []protocol.Op) {
		for op, m := range ops {
			since := max(m.Since, 1)
			msgs.Row(kind, strconv.Itoa(op), m.Name, strconv.Itoa(since), strconv.Itoa(len(m.Args)))
		}
	}
	addOps("request", iface.Requests)
	addOps("event", iface.Events)

	_, err := fmt.Fprintln(cmd.OutOrStdout(), msgs)
	if err != nil {
		return err
	}
	if len(iface.Enums) == 0 {
		return nil
	}

	enums := newTable("ENUM", "ENTRY", "VALUE")
	for _, e := range iface.Enums {
		for _, entry := range e.Entries {
			v, err := entry.Int()
			if err != nil {
				return fmt.Errorf("%v.%v.%v: %w", name, e.Name, entry.Name, err)
			}
			value := strconv.Itoa(v)
			if e.Bitfield {
				value = fmt.Sprintf("%#x", v)
			}
			enums.Row(e.Name, entry.Name, value)
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), enums)
	return err
}
