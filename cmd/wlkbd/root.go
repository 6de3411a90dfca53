package main

import (
	"context"
	"os"
	"os/signal"

	"deedles.dev/wlkbd/internal/app"
	"deedles.dev/wlkbd/internal/config"
	"deedles.dev/wlkbd/internal/surface"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"
)

// Version is set during build.
var Version = "0.1.0-dev"

type env struct {
	v          *viper.Viper
	configFile string
}

// load reads the configuration and creates the logger it describes.
func (e *env) load() (*config.Config, *log.Logger, error) {
	if e.configFile != "" {
		e.v.SetConfigFile(e.configFile)
	}

	cfg, err := config.Load(e.v)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
	})
	logger.Debug("loaded config", "file", e.v.ConfigFileUsed())

	return cfg, logger, nil
}

func newRootCmd() *cobra.Command {
	e := env{v: config.New()}

	cmd := &cobra.Command{
		Use:   "wlkbd",
		Short: "On-screen keyboard for Wayland",
		Long: `wlkbd shows a keyboard along the bottom of an output and types into the
focused window through the compositor's virtual keyboard protocol.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := e.load()
			if err != nil {
				return err
			}

			names, err := cfg.Names()
			if err != nil {
				return err
			}

			ctx, stop := contextFor(cmd)
			defer stop()

			logger.Info("starting", "layout", names.Layout, "variant", names.Variant, "output", cfg.Output)
			return app.Run(ctx, app.Config{
				Names:  names,
				Output: cfg.Output,
				Surface: surface.Config{
					Namespace:       cfg.Namespace,
					Height:          int32(cfg.Height),
					MinimizedHeight: int32(cfg.MinimizedHeight),
				},
				CursorTheme: cfg.Cursor.Theme,
				CursorSize:  cfg.Cursor.Size,
			}, logger)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&e.configFile, "config", "", "config file (default is wlkbd.toml in $XDG_CONFIG_HOME/wlkbd, ~/.config/wlkbd or .)")
	flags.StringP("layout", "l", config.DefaultConfig.Layout, "keyboard layout")
	flags.String("variant", "", "keyboard layout variant")
	flags.StringSlice("options", nil, "XKB options")
	flags.StringP("output", "o", "", `output to show the keyboard on, or "default" to let the compositor choose`)
	flags.Int("height", config.DefaultConfig.Height, "keyboard height in pixels")
	flags.String("log-level", config.DefaultConfig.LogLevel, "log level")

	for key, flag := range map[string]string{
		"layout":    "layout",
		"variant":   "variant",
		"options":   "options",
		"output":    "output",
		"height":    "height",
		"log_level": "log-level",
	} {
		err := e.v.BindPFlag(key, flags.Lookup(flag))
		if err != nil {
			panic(err)
		}
	}

	cmd.AddCommand(
		newOutputsCmd(&e),
		newKeymapCmd(&e),
		newLayoutsCmd(),
		newProtocolsCmd(),
	)

	return cmd
}

// contextFor returns a context that is canceled on interrupt.
func contextFor(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
}
