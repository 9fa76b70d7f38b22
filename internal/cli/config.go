package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/fractile/fractile/pkg/pipeline"
)

// Config holds user defaults loaded from ~/.config/fractile/config.toml.
// Flags override config values; config values override built-in defaults.
//
// Example file:
//
//	iterations = 10
//	decay = 0.4
//	formats = ["png", "tiff"]
//
//	[serve]
//	addr = ":8642"
//	redis = "redis://localhost:6379/0"
type Config struct {
	Iterations int      `toml:"iterations"`
	Decay      *float64 `toml:"decay"` // pointer: decay 0 is a meaningful setting
	Formats    []string `toml:"formats"`

	Serve ServeConfig `toml:"serve"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr  string `toml:"addr"`
	Redis string `toml:"redis"`
}

// defaultServeAddr is where the HTTP server listens when neither flag nor
// config say otherwise.
const defaultServeAddr = ":8642"

// defaultConfig backs every run with the pipeline's built-in defaults.
func defaultConfig() Config {
	decay := pipeline.DefaultDecay
	return Config{
		Iterations: pipeline.DefaultIterations,
		Decay:      &decay,
		Formats:    []string{pipeline.FormatPNG},
		Serve:      ServeConfig{Addr: defaultServeAddr},
	}
}

// loadConfig reads the user config file, layering it over the built-in
// defaults. A missing file is not an error; a malformed one is.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if cfg.Decay == nil {
		decay := pipeline.DefaultDecay
		cfg.Decay = &decay
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = pipeline.DefaultIterations
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = []string{pipeline.FormatPNG}
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = defaultServeAddr
	}
	return cfg, nil
}
