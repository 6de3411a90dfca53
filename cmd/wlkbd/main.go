// wlkbd is an on-screen keyboard for Wayland compositors that support
// the layer shell and virtual keyboard protocols.
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		log.Error("wlkbd failed", "err", err)
		os.Exit(1)
	}
}
