package geometry

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center        core.Vec3
	Radius        float64
	MaterialIndex int
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, materialIndex int) *Sphere {
	return &Sphere{
		Center:        center,
		Radius:        radius,
		MaterialIndex: materialIndex,
	}
}

// intersect solves |o + t*d - c|² = r² and returns the nearest root inside the ray's range
func (s *Sphere) intersect(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2*halfB*t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// A tangent ray (zero discriminant) does not count as a hit
	discriminant := halfB*halfB - a*c
	if discriminant <= 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !ray.InRange(root) {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if !ray.InRange(root) {
			return 0, false
		}
	}

	return root, true
}

// TestClosest implements Primitive
func (s *Sphere) TestClosest(ray core.Ray, hit *core.HitRecord) bool {
	t, ok := s.intersect(ray)
	if !ok {
		return false
	}

	if t < hit.T {
		point := ray.At(t)
		hit.Tighten(t, point, point.Subtract(s.Center).Normalize(), s.MaterialIndex)
	}
	return true
}

// TestOcclusion implements Primitive
func (s *Sphere) TestOcclusion(ray core.Ray) bool {
	_, ok := s.intersect(ray)
	return ok
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Gray(s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
