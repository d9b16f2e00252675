// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"` // 0 disables frame pacing
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Width     int     `yaml:"width"`  // 0 uses the window width
	Height    int     `yaml:"height"` // 0 uses the window height
	LightFov  float32 `yaml:"light_fov"`
	Near      float32 `yaml:"near"`
	Far       float32 `yaml:"far"`
	CullFront bool    `yaml:"cull_front"`
	Bias      float32 `yaml:"bias"`
	DumpDir   string  `yaml:"dump_dir"`
	DumpOnce  bool    `yaml:"dump_on_start"` // write every layer after the first render
	Stretch   bool    `yaml:"stretch_dump"`  // map the used depth range to 0..255
}

// SceneConfig holds the scene path and camera input settings.
type SceneConfig struct {
	Path           string  `yaml:"path"`
	ScrollStep     float32 `yaml:"scroll_step"`
	DragDivisor    float32 `yaml:"drag_divisor"`
	MaxDragRadians float32 `yaml:"max_drag_radians"`
	ScreenshotDir  string  `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1400,
			Height:     900,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   60,
		},
		Shadow: ShadowConfig{
			LightFov:  30,
			Near:      1,
			Far:       100,
			CullFront: true,
			Bias:      0.0005,
			DumpDir:   "shadow_dumps",
			Stretch:   true,
		},
		Scene: SceneConfig{
			ScrollStep:     0.2,
			DragDivisor:    10,
			MaxDragRadians: 0.5,
			ScreenshotDir:  "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ShadowSize returns the size of one shadow layer for a window of the given
// size.
func (c *Config) ShadowSize(windowWidth, windowHeight int) (int, int) {
	w, h := c.Shadow.Width, c.Shadow.Height
	if w <= 0 {
		w = windowWidth
	}
	if h <= 0 {
		h = windowHeight
	}
	return w, h
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: graphics size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Graphics.FPSLimit < 0:
		return fmt.Errorf("%w: graphics.fps_limit %d", ErrInvalid, c.Graphics.FPSLimit)
	case c.Shadow.Width < 0 || c.Shadow.Height < 0:
		return fmt.Errorf("%w: shadow size %dx%d", ErrInvalid, c.Shadow.Width, c.Shadow.Height)
	case c.Shadow.LightFov <= 0 || c.Shadow.LightFov >= 180:
		return fmt.Errorf("%w: shadow.light_fov %v", ErrInvalid, c.Shadow.LightFov)
	case c.Shadow.Near <= 0 || c.Shadow.Far <= c.Shadow.Near:
		return fmt.Errorf("%w: shadow near/far %v/%v", ErrInvalid, c.Shadow.Near, c.Shadow.Far)
	case c.Scene.DragDivisor <= 0:
		return fmt.Errorf("%w: scene.drag_divisor %v", ErrInvalid, c.Scene.DragDivisor)
	}
	return nil
}
