// Package config handles ray tracer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

// Config holds all ray tracer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds frame size and shading settings.
type RenderConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Workers     int    `yaml:"workers"`   // 0 = one per CPU
	TileSize    int    `yaml:"tile_size"` // Edge length of worker tiles
	Mode        string `yaml:"mode"`      // observed-area, radiance, brdf or combined
	Shadows     bool   `yaml:"shadows"`
	PixelFormat string `yaml:"pixel_format"` // argb8888, abgr8888 or rgbx8888
	Frames      int    `yaml:"frames"`       // Passes to render; each pass cycles the lighting mode after the first
}

// OutputConfig holds where rendered frames are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // Frames go to <dir>/<scene>/render_<timestamp>.<format>
	Format string `yaml:"format"` // png or bmp
	Path   string `yaml:"path"`   // Explicit output file, overrides dir and format
}

// SceneConfig holds scene selection settings.
type SceneConfig struct {
	Name  string `yaml:"name"`  // Built-in scene name or path to a .yaml description
	Dir   string `yaml:"dir"`   // Directory searched for scene files by -list
	Watch bool   `yaml:"watch"` // Re-render when the scene file changes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:       640,
			Height:      480,
			Workers:     0,
			TileSize:    renderer.DefaultTileSize,
			Mode:        renderer.Combined.String(),
			Shadows:     true,
			PixelFormat: renderer.ARGB8888.String(),
			Frames:      1,
		},
		Output: OutputConfig{
			Dir:    "output",
			Format: "png",
		},
		Scene: SceneConfig{
			Name: "reference",
			Dir:  "scenes",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the renderer cannot use.
func (c *Config) Validate() error {
	var errs []error

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Render.Workers))
	}
	if c.Render.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative, got %d", c.Render.Frames))
	}
	if _, err := renderer.ParseLightingMode(c.Render.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := renderer.ParsePixelFormat(c.Render.PixelFormat); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Path == "" && c.Output.Format != "png" && c.Output.Format != "bmp" {
		errs = append(errs, fmt.Errorf("output format must be png or bmp, got %q", c.Output.Format))
	}
	if c.Scene.Name == "" {
		errs = append(errs, errors.New("scene name is empty"))
	}

	return errors.Join(errs...)
}

// RendererOptions converts the render settings into renderer options.
// Call Validate first; unparseable names fall back to the renderer defaults.
func (c *Config) RendererOptions() []renderer.Option {
	mode, _ := renderer.ParseLightingMode(c.Render.Mode)
	format, _ := renderer.ParsePixelFormat(c.Render.PixelFormat)

	return []renderer.Option{
		renderer.WithWorkers(c.Render.Workers),
		renderer.WithTileSize(c.Render.TileSize),
		renderer.WithLightingMode(mode),
		renderer.WithShadows(c.Render.Shadows),
		renderer.WithPixelFormat(format),
	}
}
