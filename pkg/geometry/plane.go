package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Origin        core.Vec3 // A point on the plane
	Normal        core.Vec3 // Unit normal
	MaterialIndex int
}

// NewPlane creates a new plane
func NewPlane(origin, normal core.Vec3, materialIndex int) *Plane {
	return &Plane{
		Origin:        origin,
		Normal:        normal.Normalize(), // Ensure normal is normalized
		MaterialIndex: materialIndex,
	}
}

func (p *Plane) intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to the plane never reaches it
	if math.Abs(denominator) < parallelEpsilon {
		return 0, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Origin.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !ray.InRange(t) {
		return 0, false
	}

	return t, true
}

// TestClosest implements Primitive. The reported normal is the plane normal regardless of the side hit.
func (p *Plane) TestClosest(ray core.Ray, hit *core.HitRecord) bool {
	t, ok := p.intersect(ray)
	if !ok {
		return false
	}

	if t < hit.T {
		hit.Tighten(t, ray.At(t), p.Normal, p.MaterialIndex)
	}
	return true
}

// TestOcclusion implements Primitive
func (p *Plane) TestOcclusion(ray core.Ray) bool {
	_, ok := p.intersect(ray)
	return ok
}
