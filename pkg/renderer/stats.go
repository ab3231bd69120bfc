package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about a render pass
type RenderStats struct {
	Pixels            int           // Pixels evaluated
	PrimaryHits       int           // Camera rays that hit a primitive
	ShadowRays        int           // Occlusion queries cast toward lights
	ShadowRaysBlocked int           // Occlusion queries that found an occluder
	Tiles             int           // Tiles dispatched to workers
	Workers           int           // Workers used for the pass
	Elapsed           time.Duration // Wall time of the pass
}

// Add accumulates the per-pixel counters of other into s
func (s *RenderStats) Add(other RenderStats) {
	s.Pixels += other.Pixels
	s.PrimaryHits += other.PrimaryHits
	s.ShadowRays += other.ShadowRays
	s.ShadowRaysBlocked += other.ShadowRaysBlocked
}

// HitRatio returns the fraction of camera rays that hit something
func (s RenderStats) HitRatio() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.PrimaryHits) / float64(s.Pixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
		}
	}

	return total / 255.0 / float64(count)
}
