package main

import (
	"fmt"

	"deedles.dev/wlkbd/keymap"
	"github.com/spf13/cobra"
)

func newKeymapCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "keymap",
		Short: "Print the keymap that would be sent to the compositor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := e.load()
			if err != nil {
				return err
			}

			names, err := cfg.Names()
			if err != nil {
				return err
			}
			logger.Debug("compiling keymap", "names", names, "root", keymap.DataRoot())

			km, err := keymap.Compile(names)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), km)
			return err
		},
	}
}
