// Package config loads the storymap TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when a configuration file has out-of-range values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds storymap configuration.
type Config struct {
	Chart    ChartConfig    `toml:"chart"`
	Terminal TerminalConfig `toml:"terminal"`
	Log      LogConfig      `toml:"log"`
}

// ChartConfig controls chart geometry, in chart units.
type ChartConfig struct {
	Grid       float64 `toml:"grid" validate:"gte=0"`
	NodeWidth  float64 `toml:"node_width" validate:"gt=0"`
	NodeHeight float64 `toml:"node_height" validate:"gt=0"`
}

// TerminalConfig maps terminal cells to chart units.
type TerminalConfig struct {
	ScaleX float64 `toml:"scale_x" validate:"gt=0"` // chart units per column
	ScaleY float64 `toml:"scale_y" validate:"gt=0"` // chart units per row
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=trace debug info warn error disabled"`
	File  string `toml:"file"` // empty: no log file
}

var validate = validator.New()

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Chart:    ChartConfig{Grid: 10, NodeWidth: 80, NodeHeight: 50},
		Terminal: TerminalConfig{ScaleX: 5, ScaleY: 10},
		Log:      LogConfig{Level: "info"},
	}
}

// Dir returns the storymap config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "storymap")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %s%s", e.Namespace(), e.Tag(), param(e.Param())))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
// It reports whether a file was written.
func EnsureExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, Save(path, Default())
}
