package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/iburimskiy/neural-visualization/internal/preset"
)

const (
	WindowWidth  = 1280
	WindowHeight = 800

	// Node field defaults
	DefaultNodeCount = 300
	DefaultPreset    = "flow"

	// Camera
	DefaultDistance = 34.0
	MinDistance     = 12.0
	MaxDistance     = 80.0
	AutoRotateRate  = 0.15 // radians per second
	ZoomStep        = 2.0  // world units per wheel notch
	FieldOfView     = 45.0 // degrees

	// Preset transition window
	TransitionSeconds = 1.0

	// Connection drawing (shell mode only)
	ConnectionNeighbors = 3
	ConnectionMaxDist   = 7.0

	// Audio tap
	AudioRingSize   = 8192
	SmoothingFactor = 0.6
)

// Config holds the user-tunable settings, overridable from a TOML file.
type Config struct {
	Window  WindowConfig               `toml:"window"`
	Field   FieldConfig                `toml:"field"`
	Camera  CameraConfig               `toml:"camera"`
	Presets map[string]preset.Override `toml:"presets"`
}

// WindowConfig controls the output window.
type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// FieldConfig controls node field generation.
type FieldConfig struct {
	Nodes  int    `toml:"nodes"`
	Mode   string `toml:"mode"` // "helix" or "shell"
	Preset string `toml:"preset"`
	Seed   int64  `toml:"seed"` // 0 means time-based
}

// CameraConfig controls the orbit camera.
type CameraConfig struct {
	Distance    float64 `toml:"distance"`
	MinDistance float64 `toml:"min_distance"`
	MaxDistance float64 `toml:"max_distance"`
	RotateRate  float64 `toml:"rotate_rate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: WindowWidth, Height: WindowHeight},
		Field:  FieldConfig{Nodes: DefaultNodeCount, Mode: "helix", Preset: DefaultPreset},
		Camera: CameraConfig{
			Distance:    DefaultDistance,
			MinDistance: MinDistance,
			MaxDistance: MaxDistance,
			RotateRate:  AutoRotateRate,
		},
	}
}

// Load reads a TOML override file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Field.Nodes <= 0 {
		return fmt.Errorf("node count must be positive, got %d", c.Field.Nodes)
	}
	if c.Field.Mode != "helix" && c.Field.Mode != "shell" {
		return fmt.Errorf("unknown generation mode %q", c.Field.Mode)
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		return fmt.Errorf("invalid camera distance range [%v, %v]", c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	return nil
}
