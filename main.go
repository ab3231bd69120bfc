package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-direct-raytracer/internal/config"
	"github.com/df07/go-direct-raytracer/internal/logger"
	"github.com/df07/go-direct-raytracer/internal/watch"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	logger.Sync()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run parses args, renders the requested frames and, with -watch, keeps
// re-rendering until ctx is cancelled
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Direct-lighting raytracer")
		fmt.Fprintln(fs.Output(), "Usage: raytracer [options]")
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output())
		fmt.Fprintf(fs.Output(), "Built-in scenes: %s\n", strings.Join(scene.BuiltinNames(), ", "))
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if flags.List {
		return listScenes(stdout, cfg.Scene.Dir)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	s, err := openScene(cfg.Scene.Name)
	if err != nil {
		return err
	}

	r := renderer.NewRenderer(cfg.Render.Width, cfg.Render.Height,
		append(cfg.RendererOptions(), renderer.WithLogger(logger.Named("renderer")))...)

	frames := max(cfg.Render.Frames, 1)
	for frame := 0; frame < frames; frame++ {
		if frame > 0 {
			r.CycleLightingMode()
		}
		if err := renderFrame(r, s, cfg, frame, frames); err != nil {
			return err
		}
	}

	if !cfg.Scene.Watch {
		return nil
	}
	return watchScene(ctx, r, s, cfg)
}

func listScenes(w io.Writer, dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	for _, info := range scenes {
		if info.Description != "" {
			fmt.Fprintf(w, "%-30s %s - %s\n", info.ID, info.Name, info.Description)
		} else {
			fmt.Fprintf(w, "%-30s %s\n", info.ID, info.Name)
		}
	}
	return nil
}

func openScene(ref string) (*scene.Scene, error) {
	s, err := scene.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("opening scene %q: %w", ref, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", ref, err)
	}

	fields := []zap.Field{
		zap.String("scene", s.Name),
		zap.Int("primitives", s.GetPrimitiveCount()),
		zap.Int("materials", len(s.Materials)),
		zap.Int("lights", len(s.Lights)),
		zap.Float64s("cameraForward", vecFields(s.Camera.Forward())),
	}
	if bounds, ok := s.Bounds(); ok {
		fields = append(fields,
			zap.Float64s("boundsCenter", vecFields(bounds.Center())),
			zap.Float64s("boundsSize", vecFields(bounds.Size())),
		)
	}
	logger.Info("scene loaded", fields...)
	return s, nil
}

func vecFields(v core.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func renderFrame(r *renderer.Renderer, s *scene.Scene, cfg *config.Config, frame, frames int) error {
	stats := r.Render(s)

	path := outputPath(cfg, s.Name, r.LightingMode(), frame, frames, time.Now())
	if err := r.SaveBufferToImage(path); err != nil {
		return fmt.Errorf("saving frame: %w", err)
	}

	logger.Info("frame rendered",
		zap.String("file", path),
		zap.Stringer("mode", r.LightingMode()),
		zap.Bool("shadows", r.ShadowsEnabled()),
		zap.Duration("elapsed", stats.Elapsed),
		zap.Float64("hitRatio", stats.HitRatio()),
		zap.Float64("luminance", renderer.CalculateAverageLuminance(r.Buffer().Image())),
	)
	return nil
}

// outputPath picks where a frame is written. An explicit path is used as is for a
// single frame and gets the lighting mode appended otherwise; without one, frames
// go to <dir>/<scene>/render_<timestamp>.<format>.
func outputPath(cfg *config.Config, sceneName string, mode renderer.LightingMode, frame, frames int, now time.Time) string {
	suffix := ""
	if frames > 1 {
		suffix = fmt.Sprintf("_%02d_%s", frame, mode)
	}

	if cfg.Output.Path != "" {
		ext := filepath.Ext(cfg.Output.Path)
		return strings.TrimSuffix(cfg.Output.Path, ext) + suffix + ext
	}

	name := fmt.Sprintf("render_%s%s.%s", now.Format("20060102_150405"), suffix, cfg.Output.Format)
	return filepath.Join(cfg.Output.Dir, sceneDirName(sceneName), name)
}

// sceneDirName turns a scene name into a single path element
func sceneDirName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "untitled"
	}
	return name
}

// watchScene re-renders whenever the scene description or one of its meshes changes.
// A scene that fails to reload is reported and the previous one is kept.
func watchScene(ctx context.Context, r *renderer.Renderer, s *scene.Scene, cfg *config.Config) error {
	files, err := scene.SourceFiles(cfg.Scene.Name)
	if err != nil {
		return fmt.Errorf("watch needs a scene file: %w", err)
	}

	w, err := watch.New(logger.Named("watch"), files...)
	if err != nil {
		return err
	}
	defer func() { w.Close() }()

	logger.Info("watching for changes", zap.Strings("files", files))

	for {
		file, err := w.Wait(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		reloaded, err := openScene(cfg.Scene.Name)
		if err != nil {
			logger.Warn("scene reload failed", zap.String("file", file), zap.Error(err))
			continue
		}
		s = reloaded

		// Mesh files may have been added or removed
		if current, err := scene.SourceFiles(cfg.Scene.Name); err == nil && !slices.Equal(current, files) {
			next, err := watch.New(logger.Named("watch"), current...)
			if err != nil {
				return err
			}
			w.Close()
			w, files = next, current
		}

		if err := renderFrame(r, s, cfg, 0, 1); err != nil {
			return err
		}
	}
}
