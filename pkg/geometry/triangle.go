package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// CullMode selects which face of a triangle can be hit.
// The front face is the side the normal points toward.
type CullMode int

const (
	NoCulling        CullMode = iota // Both faces can be hit
	FrontFaceCulling                 // Rays arriving on the front face are ignored
	BackFaceCulling                  // Rays arriving on the back face are ignored
)

// String returns the configuration name of the cull mode
func (c CullMode) String() string {
	switch c {
	case FrontFaceCulling:
		return "front"
	case BackFaceCulling:
		return "back"
	default:
		return "none"
	}
}

// ParseCullMode converts a configuration name into a CullMode
func ParseCullMode(name string) (CullMode, error) {
	switch name {
	case "", "none":
		return NoCulling, nil
	case "front":
		return FrontFaceCulling, nil
	case "back":
		return BackFaceCulling, nil
	default:
		return NoCulling, fmt.Errorf("unknown cull mode %q", name)
	}
}

// ForOcclusion returns the cull mode used by shadow queries.
// Front and back swap so a shell culled from the camera still casts shadows from the inside.
func (c CullMode) ForOcclusion() CullMode {
	switch c {
	case FrontFaceCulling:
		return BackFaceCulling
	case BackFaceCulling:
		return FrontFaceCulling
	default:
		return c
	}
}

// culls reports whether a ray with the given dot(direction, normal) is rejected
func (c CullMode) culls(nvDot float64) bool {
	switch c {
	case FrontFaceCulling:
		return nvDot < 0
	case BackFaceCulling:
		return nvDot > 0
	default:
		return false
	}
}

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2    core.Vec3 // Vertices, counter-clockwise seen from the front
	Normal        core.Vec3 // Precomputed unit normal
	CullMode      CullMode
	MaterialIndex int
}

// NewTriangle creates a new triangle and precomputes its normal from the winding order
func NewTriangle(v0, v1, v2 core.Vec3, cullMode CullMode, materialIndex int) *Triangle {
	return &Triangle{
		V0:            v0,
		V1:            v1,
		V2:            v2,
		Normal:        faceNormal(v0, v1, v2),
		CullMode:      cullMode,
		MaterialIndex: materialIndex,
	}
}

// faceNormal is the unit normal of a counter-clockwise triangle
func faceNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	return v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
}

// intersectTriangle runs the plane-then-edge test shared by Triangle and TriangleMesh.
// Callers pass the cull mode already adjusted for the query kind.
func intersectTriangle(v0, v1, v2, normal core.Vec3, cullMode CullMode, ray core.Ray) (float64, core.Vec3, bool) {
	nvDot := ray.Direction.Dot(normal)
	if math.Abs(nvDot) < parallelEpsilon {
		return 0, core.Vec3{}, false
	}

	if cullMode.culls(nvDot) {
		return 0, core.Vec3{}, false
	}

	t := v0.Subtract(ray.Origin).Dot(normal) / nvDot
	if !ray.InRange(t) {
		return 0, core.Vec3{}, false
	}

	point := ray.At(t)

	// Inside iff the point is on the inner side of all three edges
	edge0 := v0.Subtract(v1).Cross(point.Subtract(v1)).Dot(normal)
	edge1 := v1.Subtract(v2).Cross(point.Subtract(v2)).Dot(normal)
	edge2 := v2.Subtract(v0).Cross(point.Subtract(v0)).Dot(normal)
	if edge0 > 0 || edge1 > 0 || edge2 > 0 {
		return 0, core.Vec3{}, false
	}

	return t, point, true
}

// TestClosest implements Primitive
func (tr *Triangle) TestClosest(ray core.Ray, hit *core.HitRecord) bool {
	t, point, ok := intersectTriangle(tr.V0, tr.V1, tr.V2, tr.Normal, tr.CullMode, ray)
	if !ok {
		return false
	}

	if t < hit.T {
		hit.Tighten(t, point, tr.Normal, tr.MaterialIndex)
	}
	return true
}

// TestOcclusion implements Primitive using the inverted cull mode
func (tr *Triangle) TestOcclusion(ray core.Ray) bool {
	_, _, ok := intersectTriangle(tr.V0, tr.V1, tr.V2, tr.Normal, tr.CullMode.ForOcclusion(), ray)
	return ok
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (tr *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(tr.V0, tr.V1, tr.V2)
}
