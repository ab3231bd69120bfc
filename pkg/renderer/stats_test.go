package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderStats_Add(t *testing.T) {
	stats := RenderStats{Pixels: 4, PrimaryHits: 2, Tiles: 3, Workers: 2}
	stats.Add(RenderStats{Pixels: 6, PrimaryHits: 3, ShadowRays: 5, ShadowRaysBlocked: 1, Tiles: 9})

	assert.Equal(t, 10, stats.Pixels)
	assert.Equal(t, 5, stats.PrimaryHits)
	assert.Equal(t, 5, stats.ShadowRays)
	assert.Equal(t, 1, stats.ShadowRaysBlocked)
	// Pass-level fields are not summed
	assert.Equal(t, 3, stats.Tiles)
	assert.Equal(t, 2, stats.Workers)
}

func TestRenderStats_HitRatio(t *testing.T) {
	assert.Zero(t, RenderStats{}.HitRatio())
	assert.InDelta(t, 0.25, RenderStats{Pixels: 8, PrimaryHits: 2}.HitRatio(), 1e-12)
}

func TestCalculateAverageLuminance(t *testing.T) {
	tests := []struct {
		name     string
		fill     color.RGBA
		expected float64
	}{
		{"black", color.RGBA{A: 255}, 0},
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1},
		{"pure green", color.RGBA{G: 255, A: 255}, 0.7152},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 3, 2))
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					img.SetRGBA(x, y, tt.fill)
				}
			}

			luminance := CalculateAverageLuminance(img)
			if math.Abs(luminance-tt.expected) > 1e-9 {
				t.Errorf("Expected luminance %f, got %f", tt.expected, luminance)
			}
		})
	}

	assert.Zero(t, CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestLightingMode_Names(t *testing.T) {
	assert.Equal(t, []string{"observed-area", "radiance", "brdf", "combined"}, LightingModeNames())

	for _, name := range LightingModeNames() {
		mode, err := ParseLightingMode(name)
		assert.NoError(t, err)
		assert.Equal(t, name, mode.String())
	}

	_, err := ParseLightingMode("ambient")
	assert.Error(t, err)
	assert.Equal(t, "LightingMode(9)", LightingMode(9).String())
	assert.Equal(t, ObservedArea, Combined.next())
}
