package main

import (
	"fmt"

	"deedles.dev/wlkbd/keymap"
	"github.com/spf13/cobra"
)

func newLayoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List the supported keyboard layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable("NAME", "DESCRIPTION", "ARRANGEMENT")
			for _, l := range keymap.Layouts() {
				t.Row(l.Name(), l.String(), l.Aliases())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t)
			return err
		},
	}
}
