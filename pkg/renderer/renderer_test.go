package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/material"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// mockScene answers every camera ray with the same hit, or a miss when accept rejects the ray
type mockScene struct {
	camera    *geometry.Camera
	materials []material.Material
	lights    []lights.Light
	hit       core.HitRecord
	accept    func(ray core.Ray) bool
	occluded  bool
}

func newMockScene(hit core.HitRecord, ls ...lights.Light) *mockScene {
	return &mockScene{
		camera:    geometry.NewCamera(core.Zero, 90),
		materials: []material.Material{material.NewLambert(core.White, 1)},
		lights:    ls,
		hit:       hit,
	}
}

func (m *mockScene) GetCamera() *geometry.Camera       { return m.camera }
func (m *mockScene) GetMaterials() []material.Material { return m.materials }
func (m *mockScene) GetLights() []lights.Light         { return m.lights }
func (m *mockScene) DoesHit(ray core.Ray) bool         { return m.occluded }

func (m *mockScene) GetClosestHit(ray core.Ray) core.HitRecord {
	if m.accept != nil && !m.accept(ray) {
		return core.NewHitRecord()
	}
	return m.hit
}

// facingHit is a hit at (0,0,4) on a surface facing the camera
func facingHit(materialIndex int) core.HitRecord {
	return core.HitRecord{
		DidHit:        true,
		T:             4,
		Point:         core.NewVec3(0, 0, 4),
		Normal:        core.NewVec3(0, 0, -1),
		MaterialIndex: materialIndex,
	}
}

func TestRenderer_SingleSphere(t *testing.T) {
	lambert := 1 / math.Pi

	tests := []struct {
		mode     LightingMode
		expected float64
	}{
		{ObservedArea, 1},
		{Radiance, 10.0 / 16.0},
		{BRDF, lambert},
		{Combined, 10.0 / 16.0 * lambert},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s, err := scene.NewSingleSphereScene()
			require.NoError(t, err)

			r := NewRenderer(1, 1, WithLightingMode(tt.mode))
			color := r.RenderPixel(s, 0)

			assert.InDelta(t, tt.expected, color.X, 1e-6)
			assert.InDelta(t, tt.expected, color.Y, 1e-6)
			assert.InDelta(t, tt.expected, color.Z, 1e-6)

			red, _, _ := r.Buffer().At(0, 0)
			want, _, _ := core.Gray(tt.expected).ToRGB8()
			assert.Equal(t, want, red)
		})
	}
}

func TestRenderer_CenterRayHitsSphereFront(t *testing.T) {
	s, err := scene.NewSingleSphereScene()
	require.NoError(t, err)

	r := NewRenderer(1, 1)
	ray := r.CameraRay(s.GetCamera(), 0, 0)

	assert.True(t, ray.Direction.ApproxEqual(core.UnitZ, 1e-12))
	hit := s.GetClosestHit(ray)
	require.True(t, hit.DidHit)
	assert.InDelta(t, 4.0, hit.T, 1e-9)
	assert.True(t, hit.Normal.ApproxEqual(core.NewVec3(0, 0, -1), 1e-9))
}

func TestRenderer_CameraRay(t *testing.T) {
	camera := geometry.NewCamera(core.NewVec3(1, 2, 3), 90)
	r := NewRenderer(2, 2)

	ray := r.CameraRay(camera, 0, 0)
	expected := core.NewVec3(-0.5, 0.5, 1).Normalize()

	assert.Equal(t, core.NewVec3(1, 2, 3), ray.Origin)
	assert.True(t, ray.Direction.ApproxEqual(expected, 1e-12), "got %v", ray.Direction)
	assert.Equal(t, rayMin, ray.Min)
	assert.True(t, math.IsInf(ray.Max, 1))

	// Turning the camera turns every ray with it
	camera.SetYawPitch(math.Pi/2, 0)
	center := NewRenderer(1, 1).CameraRay(camera, 0, 0)
	assert.True(t, center.Direction.ApproxEqual(core.UnitX, 1e-9), "got %v", center.Direction)
}

func TestRenderer_PixelLayout(t *testing.T) {
	light := lights.NewPointLight(core.Zero, core.White, 16)

	t.Run("right column", func(t *testing.T) {
		s := newMockScene(facingHit(0), light)
		s.accept = func(ray core.Ray) bool { return ray.Direction.X > 1e-9 }

		r := NewRenderer(3, 2, WithLightingMode(ObservedArea))
		r.Render(s)

		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				red, _, _ := r.Buffer().At(x, y)
				assert.Equal(t, x == 2, red > 0, "pixel (%d,%d)", x, y)
			}
		}
	})

	t.Run("top row", func(t *testing.T) {
		s := newMockScene(facingHit(0), light)
		s.accept = func(ray core.Ray) bool { return ray.Direction.Y > 0 }

		r := NewRenderer(3, 2, WithLightingMode(ObservedArea))
		r.Render(s)

		for x := 0; x < 3; x++ {
			top, _, _ := r.Buffer().At(x, 0)
			bottom, _, _ := r.Buffer().At(x, 1)
			assert.Equal(t, uint8(255), top)
			assert.Equal(t, uint8(0), bottom)
		}
	})

	t.Run("pixel index", func(t *testing.T) {
		s := newMockScene(facingHit(0), light)
		s.accept = func(ray core.Ray) bool { return ray.Direction.X > 1e-9 && ray.Direction.Y < 0 }

		r := NewRenderer(3, 2, WithLightingMode(ObservedArea))
		for i := 0; i < 6; i++ {
			color := r.RenderPixel(s, i)
			assert.Equal(t, i == 5, color.X > 0, "pixel %d", i)
		}
		assert.Equal(t, ARGB8888.Map(255, 255, 255), r.Buffer().Pix[5])
	})
}

func TestRenderer_Shadows(t *testing.T) {
	s := newMockScene(facingHit(0), lights.NewPointLight(core.Zero, core.White, 16))
	s.occluded = true

	r := NewRenderer(1, 1, WithLightingMode(Radiance))
	assert.Equal(t, core.Black, r.RenderPixel(s, 0), "occluded light must contribute nothing")

	r.ToggleShadows()
	assert.False(t, r.ShadowsEnabled())
	assert.InDelta(t, 1.0, r.RenderPixel(s, 0).X, 1e-9)

	stats := NewRenderer(1, 1, WithShadows(true)).Render(s)
	assert.Equal(t, 1, stats.ShadowRays)
	assert.Equal(t, 1, stats.ShadowRaysBlocked)

	stats = NewRenderer(1, 1, WithShadows(false)).Render(s)
	assert.Zero(t, stats.ShadowRays)
}

func TestRenderer_ShadowCastByGeometry(t *testing.T) {
	build := func() *scene.Scene {
		s := scene.New("shadow", geometry.NewCamera(core.Zero, 45))
		white := s.AddMaterial(material.NewLambert(core.White, 1))
		s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), white)
		// Occluder sits halfway between the light and the point the center ray hits
		s.AddSphere(core.NewVec3(0, 2, 7.5), 0.5, white)
		s.AddPointLight(core.NewVec3(0, 4, 5), core.White, 10)
		return s
	}

	lit := NewRenderer(1, 1, WithLightingMode(ObservedArea), WithShadows(false))
	color := lit.RenderPixel(build(), 0)
	assert.InDelta(t, 5/math.Sqrt(41), color.X, 1e-9)

	shadowed := NewRenderer(1, 1, WithLightingMode(ObservedArea))
	assert.Equal(t, core.Black, shadowed.RenderPixel(build(), 0))
}

func TestRenderer_DirectionalShadowRayIsUnbounded(t *testing.T) {
	s := scene.New("directional", geometry.NewCamera(core.Zero, 45))
	white := s.AddMaterial(material.NewLambert(core.White, 1))
	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), white)
	// Far occluder between the plane and a light shining along +Z
	s.AddSphere(core.NewVec3(0, 0, -50), 5, white)
	s.AddDirectionalLight(core.UnitZ, core.White, 1)

	r := NewRenderer(1, 1, WithLightingMode(Radiance))
	assert.Equal(t, core.Black, r.RenderPixel(s, 0))
}

func TestRenderer_LightBehindSurface(t *testing.T) {
	behind := lights.NewPointLight(core.NewVec3(0, 0, 8), core.White, 16)

	tests := []struct {
		mode     LightingMode
		expected float64
	}{
		{ObservedArea, 0},
		{Radiance, 1},
		{Combined, 0},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := newMockScene(facingHit(0), behind)
			r := NewRenderer(1, 1, WithLightingMode(tt.mode), WithShadows(false))
			assert.InDelta(t, tt.expected, r.RenderPixel(s, 0).X, 1e-9)
		})
	}
}

func TestRenderer_ToneMapping(t *testing.T) {
	// Two lights 4 units away with intensity 16 each arrive as 2x the color
	orange := core.NewVec3(1, 0.5, 0)
	s := newMockScene(facingHit(0),
		lights.NewPointLight(core.NewVec3(0, 0, 0), orange, 16),
		lights.NewPointLight(core.NewVec3(0, 0, 0), orange, 16),
	)

	r := NewRenderer(1, 1, WithLightingMode(Radiance), WithShadows(false))
	color := r.RenderPixel(s, 0)

	assert.True(t, color.ApproxEqual(core.NewVec3(1, 0.5, 0), 1e-9), "got %v", color)
	red, green, blue := r.Buffer().At(0, 0)
	assert.Equal(t, []uint8{255, 127, 0}, []uint8{red, green, blue})
}

func TestRenderer_MissingMaterial(t *testing.T) {
	light := lights.NewPointLight(core.Zero, core.White, 16)

	for _, mode := range []LightingMode{BRDF, Combined} {
		s := newMockScene(facingHit(7), light)
		r := NewRenderer(1, 1, WithLightingMode(mode), WithShadows(false))
		assert.Equal(t, core.Black, r.RenderPixel(s, 0), mode.String())
	}

	s := newMockScene(facingHit(7), light)
	r := NewRenderer(1, 1, WithLightingMode(Radiance), WithShadows(false))
	assert.InDelta(t, 1.0, r.RenderPixel(s, 0).X, 1e-9)
}

func TestRenderer_MissIsBlack(t *testing.T) {
	s := newMockScene(core.NewHitRecord(), lights.NewPointLight(core.Zero, core.White, 16))
	r := NewRenderer(4, 4)

	stats := r.Render(s)

	assert.Equal(t, 16, stats.Pixels)
	assert.Zero(t, stats.PrimaryHits)
	for _, p := range r.Buffer().Pix {
		assert.Equal(t, ARGB8888.Map(0, 0, 0), p)
	}
}

func TestRenderer_ParallelMatchesSequential(t *testing.T) {
	for _, name := range scene.BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := scene.Builtin(name)
			require.NoError(t, err)

			sequential := NewRenderer(64, 48, WithWorkers(1), WithTileSize(64))
			seqStats := sequential.Render(s)

			parallel := NewRenderer(64, 48, WithWorkers(4), WithTileSize(7))
			parStats := parallel.Render(s)

			assert.Equal(t, sequential.Buffer().Pix, parallel.Buffer().Pix)
			assert.Equal(t, seqStats.Pixels, parStats.Pixels)
			assert.Equal(t, seqStats.PrimaryHits, parStats.PrimaryHits)
			assert.Equal(t, seqStats.ShadowRaysBlocked, parStats.ShadowRaysBlocked)
			assert.Equal(t, 1, seqStats.Tiles)
			assert.Equal(t, 70, parStats.Tiles)
			assert.Equal(t, 4, parStats.Workers)
		})
	}
}

func TestRenderer_RenderIsRepeatable(t *testing.T) {
	s, err := scene.NewReferenceScene()
	require.NoError(t, err)

	r := NewRenderer(40, 30)
	r.Render(s)
	first := append([]uint32(nil), r.Buffer().Pix...)

	r.Render(s)
	assert.Equal(t, first, r.Buffer().Pix)
	assert.Greater(t, CalculateAverageLuminance(r.Buffer().Image()), 0.0)
}

func TestRenderer_CameraChangesBetweenPasses(t *testing.T) {
	s, err := scene.NewSingleSphereScene()
	require.NoError(t, err)

	r := NewRenderer(1, 1, WithLightingMode(ObservedArea))
	r.Render(s)
	red, _, _ := r.Buffer().At(0, 0)
	require.Equal(t, uint8(255), red)

	// Looking away from the sphere leaves nothing to hit
	s.GetCamera().SetYawPitch(math.Pi, 0)
	r.Render(s)
	red, _, _ = r.Buffer().At(0, 0)
	assert.Equal(t, uint8(0), red)
}

func TestRenderer_PixelFormat(t *testing.T) {
	s := newMockScene(facingHit(0), lights.NewPointLight(core.Zero, core.White, 16))
	r := NewRenderer(1, 1, WithPixelFormat(RGBX8888), WithLightingMode(ObservedArea), WithShadows(false))

	r.RenderPixel(s, 0)

	assert.Equal(t, uint32(0xFFFFFFFF), r.Buffer().Pix[0])
	assert.Equal(t, RGBX8888, r.Buffer().Format)
}

func TestRenderer_Options(t *testing.T) {
	r := NewRenderer(10, 5)

	assert.Equal(t, 10, r.Width())
	assert.Equal(t, 5, r.Height())
	assert.Equal(t, Combined, r.LightingMode())
	assert.True(t, r.ShadowsEnabled())
	assert.Len(t, r.Buffer().Pix, 50)
	assert.Len(t, r.tiles, 1)

	r = NewRenderer(10, 5, WithTileSize(4), WithLogger(nil))
	assert.Len(t, r.tiles, 6)
	assert.NotNil(t, r.logger)
}

func TestRenderer_CycleLightingMode(t *testing.T) {
	r := NewRenderer(1, 1, WithLightingMode(ObservedArea))

	expected := []LightingMode{Radiance, BRDF, Combined, ObservedArea, Radiance}
	for _, mode := range expected {
		r.CycleLightingMode()
		assert.Equal(t, mode, r.LightingMode())
	}

	r.SetLightingMode(BRDF)
	assert.Equal(t, BRDF, r.LightingMode())
}

func TestRenderer_LogsPassSummary(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	s := newMockScene(facingHit(0), lights.NewPointLight(core.Zero, core.White, 16))

	r := NewRenderer(2, 2, WithLogger(zap.New(observed)), WithWorkers(2))
	r.Render(s)
	r.Render(s)

	entries := logs.FilterMessage("render pass complete").All()
	require.Len(t, entries, 2)

	fields := entries[1].ContextMap()
	assert.EqualValues(t, 2, fields["frame"])
	assert.EqualValues(t, 4, fields["pixels"])
	assert.EqualValues(t, 4, fields["primaryHits"])
	assert.Equal(t, "combined", fields["mode"])
}

func TestRenderer_SaveBufferToImage(t *testing.T) {
	s, err := scene.NewSingleSphereScene()
	require.NoError(t, err)

	r := NewRenderer(8, 8)
	r.Render(s)

	path := t.TempDir() + "/out/frame.bmp"
	require.NoError(t, r.SaveBufferToImage(path))

	img := decodeFile(t, path)
	assert.Equal(t, 8, img.Bounds().Dx())
}
