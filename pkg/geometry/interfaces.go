package geometry

import "github.com/df07/go-direct-raytracer/pkg/core"

// Primitive is anything a ray can be tested against.
//
// TestClosest reports whether the primitive was hit inside the ray's [Min, Max]
// range and tightens hit when the new intersection is strictly closer.
// The return value is true for any hit, even one that did not become the closest.
//
// TestOcclusion only answers whether the ray is blocked. It must not touch any
// shared state so it can be called from many goroutines at once.
type Primitive interface {
	TestClosest(ray core.Ray, hit *core.HitRecord) bool
	TestOcclusion(ray core.Ray) bool
}

// Bounded is implemented by primitives with a finite extent
type Bounded interface {
	BoundingBox() core.AABB
}

// parallelEpsilon is the |dot(direction, normal)| below which a ray is treated
// as parallel to a plane or triangle
const parallelEpsilon = 1e-8
