// Package config loads the keyboard's configuration from a TOML file,
// the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deedles.dev/wlkbd/keymap"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config is the complete configuration.
type Config struct {
	Layout  string   `mapstructure:"layout"`
	Variant string   `mapstructure:"variant"`
	Options []string `mapstructure:"options"`
	Model   string   `mapstructure:"model"`
	Rules   string   `mapstructure:"rules"`

	Height          int `mapstructure:"height"`
	MinimizedHeight int `mapstructure:"minimized_height"`

	// Output is the name of the output to show the keyboard on. An
	// empty name selects the first output and "default" lets the
	// compositor choose.
	Output    string `mapstructure:"output"`
	Namespace string `mapstructure:"namespace"`

	Cursor CursorConfig `mapstructure:"cursor"`

	LogLevel string `mapstructure:"log_level"`
}

type CursorConfig struct {
	Theme string `mapstructure:"theme"`
	Size  int    `mapstructure:"size"`
}

var DefaultConfig = Config{
	Layout:          "us",
	Options:         []string{},
	Model:           "pc105",
	Rules:           "evdev",
	Height:          300,
	MinimizedHeight: 30,
	Namespace:       "wlkbd",
	Cursor: CursorConfig{
		Size: 24,
	},
	LogLevel: "info",
}

// New returns a viper instance that searches the usual locations for
// wlkbd.toml and reads WLKBD_ environment variables, with every key
// defaulted.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("wlkbd")
	v.SetConfigType("toml")

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		v.AddConfigPath(filepath.Join(dir, "wlkbd"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "wlkbd"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("WLKBD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("layout", DefaultConfig.Layout)
	v.SetDefault("variant", DefaultConfig.Variant)
	v.SetDefault("options", DefaultConfig.Options)
	v.SetDefault("model", DefaultConfig.Model)
	v.SetDefault("rules", DefaultConfig.Rules)
	v.SetDefault("height", DefaultConfig.Height)
	v.SetDefault("minimized_height", DefaultConfig.MinimizedHeight)
	v.SetDefault("output", DefaultConfig.Output)
	v.SetDefault("namespace", DefaultConfig.Namespace)
	v.SetDefault("cursor.theme", DefaultConfig.Cursor.Theme)
	v.SetDefault("cursor.size", DefaultConfig.Cursor.Size)
	v.SetDefault("log_level", DefaultConfig.LogLevel)

	return v
}

// Load reads the config file, if there is one, and returns the merged
// configuration. A missing file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that can't be checked by their types.
func (cfg *Config) Validate() error {
	if cfg.Height <= 0 {
		return fmt.Errorf("height must be positive, not %v", cfg.Height)
	}
	if (cfg.MinimizedHeight <= 0) || (cfg.MinimizedHeight >= cfg.Height) {
		return fmt.Errorf("minimized_height must be between 0 and %v, not %v", cfg.Height, cfg.MinimizedHeight)
	}
	if cfg.Cursor.Size <= 0 {
		return fmt.Errorf("cursor.size must be positive, not %v", cfg.Cursor.Size)
	}

	_, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

// Names returns the keymap names that the configuration describes.
// An unknown layout is an error.
func (cfg *Config) Names() (keymap.Names, error) {
	layout, err := keymap.ParseLayout(cfg.Layout)
	if err != nil {
		return keymap.Names{}, err
	}

	names := keymap.DefaultNames(layout)
	names.Variant = cfg.Variant
	names.Options = cfg.Options
	if cfg.Model != "" {
		names.Model = cfg.Model
	}
	if cfg.Rules != "" {
		names.Rules = cfg.Rules
	}
	return names, nil
}

// Level returns the configured log level.
func (cfg *Config) Level() log.Level {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
