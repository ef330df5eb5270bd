// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all client settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Demo     DemoConfig     `yaml:"demo"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Path is the file the config was read from, empty when none was found.
	Path string `yaml:"-"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RenderConfig holds frame renderer settings.
type RenderConfig struct {
	DepthTest  bool       `yaml:"depth_test"`
	ClearColor [4]float32 `yaml:"clear_color,flow"`
	// StatsInterval logs per-pass stats every N frames (0 = off).
	StatsInterval int `yaml:"stats_interval"`
	// PassOrder overrides the default pass order when non-empty.
	PassOrder []string `yaml:"pass_order"`
}

// DemoConfig holds settings of the demo scene.
type DemoConfig struct {
	// Icon is a TGA, BMP or PNG file drawn in the hotbar slots. Empty
	// uses a generated pattern.
	Icon string `yaml:"icon"`
	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Render: RenderConfig{
			DepthTest:     true,
			ClearColor:    [4]float32{0.1, 0.1, 0.15, 1},
			StatsInterval: 0,
		},
		Demo: DemoConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("graphics: negative fps_limit %d", c.Graphics.FPSLimit))
	}
	if c.Render.StatsInterval < 0 {
		errs = append(errs, fmt.Errorf("render: negative stats_interval %d", c.Render.StatsInterval))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}
