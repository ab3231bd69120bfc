package renderer

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

const (
	// rayMin keeps camera and shadow rays from hitting their own origin
	rayMin = 1e-4
	// shadowBias offsets shadow ray origins along the surface normal
	shadowBias = 1e-4
)

// Scene is what the renderer needs from a scene
type Scene interface {
	GetCamera() *geometry.Camera
	GetMaterials() []material.Material
	GetLights() []lights.Light
	GetClosestHit(ray core.Ray) core.HitRecord
	DoesHit(ray core.Ray) bool
}

// Renderer turns a scene into a frame buffer, one camera ray per pixel
type Renderer struct {
	width, height  int
	aspectRatio    float64
	buffer         *FrameBuffer
	lightingMode   LightingMode
	shadowsEnabled bool
	numWorkers     int
	tileSize       int
	tiles          []Tile
	logger         *zap.Logger
	frame          int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithLogger sets the logger used for pass summaries
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkers sets the number of parallel workers (0 = CPU count)
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.numWorkers = n
	}
}

// WithTileSize sets the edge length of the tiles handed to workers
func WithTileSize(size int) Option {
	return func(r *Renderer) {
		r.tileSize = size
	}
}

// WithPixelFormat sets the packing of the frame buffer
func WithPixelFormat(format PixelFormat) Option {
	return func(r *Renderer) {
		r.buffer.Format = format
	}
}

// WithLightingMode sets the initial lighting mode
func WithLightingMode(mode LightingMode) Option {
	return func(r *Renderer) {
		r.lightingMode = mode
	}
}

// WithShadows sets whether shadow rays are cast
func WithShadows(enabled bool) Option {
	return func(r *Renderer) {
		r.shadowsEnabled = enabled
	}
}

// NewRenderer creates a renderer with its own width x height frame buffer.
// Defaults: combined lighting, shadows on, one worker per CPU, 32x32 tiles.
func NewRenderer(width, height int, opts ...Option) *Renderer {
	r := &Renderer{
		width:          width,
		height:         height,
		aspectRatio:    float64(width) / float64(height),
		buffer:         NewFrameBuffer(width, height, ARGB8888),
		lightingMode:   Combined,
		shadowsEnabled: true,
		tileSize:       DefaultTileSize,
		logger:         zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.tiles = NewTileGrid(width, height, r.tileSize)
	return r
}

// Width returns the frame width in pixels
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the frame height in pixels
func (r *Renderer) Height() int {
	return r.height
}

// Buffer returns the frame buffer written by Render
func (r *Renderer) Buffer() *FrameBuffer {
	return r.buffer
}

// ToggleShadows flips whether shadow rays are cast
func (r *Renderer) ToggleShadows() {
	r.shadowsEnabled = !r.shadowsEnabled
}

// ShadowsEnabled reports whether shadow rays are cast
func (r *Renderer) ShadowsEnabled() bool {
	return r.shadowsEnabled
}

// CycleLightingMode advances to the next lighting mode, wrapping after Combined
func (r *Renderer) CycleLightingMode() {
	r.lightingMode = r.lightingMode.next()
}

// SetLightingMode selects the lighting mode
func (r *Renderer) SetLightingMode(mode LightingMode) {
	r.lightingMode = mode
}

// LightingMode returns the current lighting mode
func (r *Renderer) LightingMode() LightingMode {
	return r.lightingMode
}

// SaveBufferToImage writes the frame buffer to path as BMP or PNG
func (r *Renderer) SaveBufferToImage(path string) error {
	return SaveImage(r.buffer.Image(), path)
}

// pass is the read-only state shared by every pixel of one render pass
type pass struct {
	scene         Scene
	materials     []material.Material
	lights        []lights.Light
	origin        core.Vec3
	cameraToWorld mgl64.Mat4
	fov           float64
	mode          LightingMode
	shadows       bool
}

// newPass refreshes the camera and captures everything workers read
func (r *Renderer) newPass(scene Scene) *pass {
	camera := scene.GetCamera()
	camera.Update()

	return &pass{
		scene:         scene,
		materials:     scene.GetMaterials(),
		lights:        scene.GetLights(),
		origin:        camera.Origin(),
		cameraToWorld: camera.CameraToWorld(),
		fov:           camera.FOV(),
		mode:          r.lightingMode,
		shadows:       r.shadowsEnabled,
	}
}

// Render evaluates every pixel into the frame buffer.
// The scene must not be modified until Render returns.
func (r *Renderer) Render(scene Scene) RenderStats {
	start := time.Now()
	p := r.newPass(scene)
	r.frame++

	workerPool := NewWorkerPool(r.numWorkers, len(r.tiles), func(tile Tile) RenderStats {
		return r.renderTile(p, tile)
	})
	workerPool.Start()

	for i, tile := range r.tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	stats := RenderStats{
		Tiles:   len(r.tiles),
		Workers: workerPool.GetNumWorkers(),
	}
	for range r.tiles {
		result, ok := workerPool.GetResult()
		if !ok {
			break
		}
		stats.Add(result.Stats)
	}
	workerPool.Stop()

	stats.Elapsed = time.Since(start)
	r.logger.Debug("render pass complete",
		zap.Int("frame", r.frame),
		zap.Stringer("mode", p.mode),
		zap.Bool("shadows", p.shadows),
		zap.Int("pixels", stats.Pixels),
		zap.Int("primaryHits", stats.PrimaryHits),
		zap.Int("shadowRays", stats.ShadowRays),
		zap.Int("shadowRaysBlocked", stats.ShadowRaysBlocked),
		zap.Int("workers", stats.Workers),
		zap.Duration("elapsed", stats.Elapsed),
	)

	return stats
}

// RenderPixel evaluates a single pixel, writes it to the frame buffer and
// returns its tone-mapped color
func (r *Renderer) RenderPixel(scene Scene, pixelIndex int) core.Vec3 {
	p := r.newPass(scene)
	var stats RenderStats
	return r.renderPixel(p, pixelIndex%r.width, pixelIndex/r.width, &stats)
}

// CameraRay returns the primary ray through the center of pixel (px, py)
func (r *Renderer) CameraRay(camera *geometry.Camera, px, py int) core.Ray {
	camera.Update()
	return r.cameraRay(camera.Origin(), camera.CameraToWorld(), camera.FOV(), px, py)
}

func (r *Renderer) renderTile(p *pass, tile Tile) RenderStats {
	var stats RenderStats
	for py := tile.Bounds.Min.Y; py < tile.Bounds.Max.Y; py++ {
		for px := tile.Bounds.Min.X; px < tile.Bounds.Max.X; px++ {
			r.renderPixel(p, px, py, &stats)
		}
	}
	return stats
}

func (r *Renderer) cameraRay(origin core.Vec3, cameraToWorld mgl64.Mat4, fov float64, px, py int) core.Ray {
	ndcX := 2*(float64(px)+0.5)/float64(r.width) - 1
	ndcY := 1 - 2*(float64(py)+0.5)/float64(r.height)

	dir := cameraToWorld.Mul4x1(mgl64.Vec4{ndcX * fov * r.aspectRatio, ndcY * fov, 1, 0})
	direction := core.NewVec3(dir.X(), dir.Y(), dir.Z()).Normalize()

	return core.NewBoundedRay(origin, direction, rayMin, math.Inf(1))
}

func (r *Renderer) renderPixel(p *pass, px, py int, stats *RenderStats) core.Vec3 {
	stats.Pixels++

	ray := r.cameraRay(p.origin, p.cameraToWorld, p.fov, px, py)
	hit := p.scene.GetClosestHit(ray)

	color := core.Black
	if hit.DidHit {
		stats.PrimaryHits++
		color = r.shade(p, ray, hit, stats)
	}

	color = color.MaxToOne()
	red, green, blue := color.ToRGB8()
	r.buffer.Set(px, py, red, green, blue)

	return color
}

// shade sums the contribution of every unoccluded light at hit
func (r *Renderer) shade(p *pass, ray core.Ray, hit core.HitRecord, stats *RenderStats) core.Vec3 {
	var mat material.Material
	if hit.MaterialIndex >= 0 && hit.MaterialIndex < len(p.materials) {
		mat = p.materials[hit.MaterialIndex]
	}

	v := ray.Direction.Negate()
	shadowOrigin := hit.Point.Add(hit.Normal.Multiply(shadowBias))
	color := core.Black

	for _, light := range p.lights {
		l, distance := lights.DirectionToLight(light, hit.Point).NormalizeWithLength()
		if distance == 0 {
			continue
		}

		if p.shadows {
			maxT := math.Inf(1)
			if light.IsFinite() {
				maxT = distance
			}
			stats.ShadowRays++
			if p.scene.DoesHit(core.NewBoundedRay(shadowOrigin, l, rayMin, maxT)) {
				stats.ShadowRaysBlocked++
				continue
			}
		}

		observedArea := hit.Normal.Dot(l)

		switch p.mode {
		case ObservedArea:
			if observedArea > 0 {
				color = color.Add(core.Gray(observedArea))
			}
		case Radiance:
			color = color.Add(lights.Radiance(light, hit.Point))
		case BRDF:
			if mat != nil {
				color = color.Add(mat.Shade(hit, l, v))
			}
		case Combined:
			if observedArea > 0 && mat != nil {
				radiance := lights.Radiance(light, hit.Point)
				color = color.Add(radiance.MultiplyVec(mat.Shade(hit, l, v)).Multiply(observedArea))
			}
		}
	}

	return color
}
