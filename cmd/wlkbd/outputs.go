package main

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/internal/discovery"
	"github.com/spf13/cobra"
)

func newOutputsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "List the compositor's globals and outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := e.load()
			if err != nil {
				return err
			}

			client, err := wl.Dial()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := contextFor(cmd)
			defer stop()
			context.AfterFunc(ctx, func() { client.Close() })

			g, err := discovery.Discover(client, logger)
			if g == nil {
				return err
			}
			if err != nil {
				logger.Warn("the keyboard can't be shown", "err", err)
			}

			globals := slices.SortedFunc(maps.Values(g.Registry.Globals()), func(g1, g2 wl.Global) int {
				return cmp.Compare(g1.Name, g2.Name)
			})
			t := newTable("NAME", "INTERFACE", "VERSION")
			for _, global := range globals {
				t.Row(strconv.FormatUint(uint64(global.Name), 10), global.Interface, strconv.FormatUint(uint64(global.Version), 10))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)

			t = newTable("OUTPUT", "DESCRIPTION", "MODE", "LOGICAL SIZE")
			for _, out := range g.Outputs {
				t.Row(
					out.Name,
					out.Description,
					fmt.Sprintf("%vx%v", out.Width, out.Height),
					fmt.Sprintf("%vx%v", out.LogicalWidth, out.LogicalHeight),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)

			return nil
		},
	}
}
