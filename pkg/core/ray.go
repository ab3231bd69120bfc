package core

import "math"

// Ray represents a ray with an origin, a unit direction and a parametric [Min, Max] range
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Min       float64 // Closest t accepted by intersection tests
	Max       float64 // Farthest t accepted by intersection tests
}

// NewRay creates a ray covering [0, +Inf)
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, Min: 0, Max: math.Inf(1)}
}

// NewBoundedRay creates a ray restricted to [tMin, tMax]
func NewBoundedRay(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{Origin: origin, Direction: direction, Min: tMin, Max: tMax}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies inside the ray's [Min, Max] bounds
func (r Ray) InRange(t float64) bool {
	return t >= r.Min && t <= r.Max
}
