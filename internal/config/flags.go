package config

import "flag"

// Flags holds command-line overrides. Only flags the user actually set are applied.
type Flags struct {
	fs *flag.FlagSet

	Config    string
	Scene     string
	Width     int
	Height    int
	Workers   int
	Mode      string
	NoShadows bool
	Out       string
	Frames    int
	Watch     bool
	Debug     bool
	LogFile   string
	List      bool
}

// RegisterFlags defines the ray tracer's flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.Scene, "scene", "", "Built-in scene name or path to a .yaml scene")
	fs.IntVar(&f.Width, "width", 0, "Image width")
	fs.IntVar(&f.Height, "height", 0, "Image height")
	fs.IntVar(&f.Workers, "workers", 0, "Parallel workers (0 = one per CPU)")
	fs.StringVar(&f.Mode, "mode", "", "Lighting mode: observed-area, radiance, brdf or combined")
	fs.BoolVar(&f.NoShadows, "no-shadows", false, "Disable shadow rays")
	fs.StringVar(&f.Out, "out", "", "Output image path (.png or .bmp)")
	fs.IntVar(&f.Frames, "frames", 0, "Number of passes; later passes cycle the lighting mode")
	fs.BoolVar(&f.Watch, "watch", false, "Re-render when the scene file changes")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this rotating file")
	fs.BoolVar(&f.List, "list", false, "List built-in scenes and scene files, then exit")

	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil || f.fs == nil {
		return
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "scene":
			cfg.Scene.Name = f.Scene
		case "width":
			cfg.Render.Width = f.Width
		case "height":
			cfg.Render.Height = f.Height
		case "workers":
			cfg.Render.Workers = f.Workers
		case "mode":
			cfg.Render.Mode = f.Mode
		case "no-shadows":
			cfg.Render.Shadows = !f.NoShadows
		case "out":
			cfg.Output.Path = f.Out
		case "frames":
			cfg.Render.Frames = f.Frames
		case "watch":
			cfg.Scene.Watch = f.Watch
		case "debug":
			if f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.LogFile = f.LogFile
		}
	})
}
