package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// TriangleMesh is a set of triangles sharing one position array.
// Every group of three indices forms a face with one unit normal.
// Intersection scans all faces, after a bounding box early-out that never changes the result.
// Geometry only changes through UpdateTransforms, which keeps the bounds in step with it.
type TriangleMesh struct {
	Indices       []int
	CullMode      CullMode
	MaterialIndex int

	positions []core.Vec3 // World-space positions after UpdateTransforms
	normals   []core.Vec3 // Per-face normals matching positions

	bounds      core.AABB
	boundsReady bool // False for meshes assembled without the constructor

	// Untransformed data and the transform applied by UpdateTransforms
	basePositions []core.Vec3
	baseNormals   []core.Vec3
	translation   core.Vec3
	rotation      core.Vec3
	scale         core.Vec3
}

// NewTriangleMesh creates a mesh from positions and face indices, computing face normals from winding order
func NewTriangleMesh(positions []core.Vec3, indices []int, cullMode CullMode, materialIndex int) (*TriangleMesh, error) {
	return NewTriangleMeshWithNormals(positions, nil, indices, cullMode, materialIndex)
}

// NewTriangleMeshWithNormals creates a mesh with precomputed face normals.
// A nil normals slice means the normals are derived from the winding order.
func NewTriangleMeshWithNormals(positions, normals []core.Vec3, indices []int, cullMode CullMode, materialIndex int) (*TriangleMesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(indices))
	}
	for i, index := range indices {
		if index < 0 || index >= len(positions) {
			return nil, fmt.Errorf("face index %d at position %d out of range [0,%d)", index, i, len(positions))
		}
	}
	faceCount := len(indices) / 3
	if normals != nil && len(normals) != faceCount {
		return nil, fmt.Errorf("number of normals (%d) must match number of faces (%d)", len(normals), faceCount)
	}

	mesh := &TriangleMesh{
		Indices:       append([]int(nil), indices...),
		CullMode:      cullMode,
		MaterialIndex: materialIndex,
		basePositions: append([]core.Vec3(nil), positions...),
		scale:         core.Gray(1),
	}

	mesh.positions = append([]core.Vec3(nil), positions...)
	if normals != nil {
		mesh.normals = make([]core.Vec3, faceCount)
		for i, n := range normals {
			mesh.normals[i] = n.Normalize()
		}
	} else {
		mesh.calculateNormals()
	}
	mesh.baseNormals = append([]core.Vec3(nil), mesh.normals...)
	mesh.bounds = mesh.calculateBounds()
	mesh.boundsReady = true

	return mesh, nil
}

// FaceCount returns the number of triangles in this mesh
func (m *TriangleMesh) FaceCount() int {
	return len(m.Indices) / 3
}

// Positions returns a copy of the transformed vertex positions
func (m *TriangleMesh) Positions() []core.Vec3 {
	return append([]core.Vec3(nil), m.positions...)
}

// Normals returns a copy of the transformed face normals
func (m *TriangleMesh) Normals() []core.Vec3 {
	return append([]core.Vec3(nil), m.normals...)
}

// Translate sets the translation applied by UpdateTransforms
func (m *TriangleMesh) Translate(translation core.Vec3) {
	m.translation = translation
}

// RotateY sets the yaw (radians) applied by UpdateTransforms
func (m *TriangleMesh) RotateY(yaw float64) {
	m.rotation = core.NewVec3(0, yaw, 0)
}

// Scale sets the per-axis scale applied by UpdateTransforms
func (m *TriangleMesh) Scale(scale core.Vec3) {
	m.scale = scale
}

// UpdateTransforms rebuilds the positions, normals and bounds from the untransformed
// data using scale, then rotation, then translation.
// It must not run while a render pass is reading the mesh.
func (m *TriangleMesh) UpdateTransforms() {
	m.positions = make([]core.Vec3, len(m.basePositions))
	for i, p := range m.basePositions {
		m.positions[i] = p.MultiplyVec(m.scale).Rotate(m.rotation).Add(m.translation)
	}

	// Normals go through the cofactor of the scale, which keeps them perpendicular
	// to the faces and flips them along with the winding under a mirroring scale
	cofactor := core.NewVec3(m.scale.Y*m.scale.Z, m.scale.X*m.scale.Z, m.scale.X*m.scale.Y)
	m.normals = make([]core.Vec3, len(m.baseNormals))
	for face, n := range m.baseNormals {
		m.normals[face] = n.MultiplyVec(cofactor).Rotate(m.rotation).Normalize()
	}

	m.bounds = m.calculateBounds()
	m.boundsReady = true
}

// BoundingBox returns the axis-aligned bounding box of the transformed positions.
// A mesh without vertices has an inverted, invalid box.
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.bounds
}

func (m *TriangleMesh) calculateNormals() {
	m.normals = make([]core.Vec3, m.FaceCount())
	for face := range m.normals {
		v0, v1, v2 := m.positions[m.Indices[face*3]], m.positions[m.Indices[face*3+1]], m.positions[m.Indices[face*3+2]]
		m.normals[face] = faceNormal(v0, v1, v2)
	}
}

func (m *TriangleMesh) calculateBounds() core.AABB {
	if len(m.positions) == 0 {
		return core.NewAABB(core.Gray(math.Inf(1)), core.Gray(math.Inf(-1)))
	}
	// Padding keeps planar meshes from producing a razor-thin box
	return core.NewAABBFromPoints(m.positions...).Expand(1e-6)
}

// mayHit is the bounding box early-out
func (m *TriangleMesh) mayHit(ray core.Ray) bool {
	if m.FaceCount() == 0 {
		return false
	}
	return !m.boundsReady || m.bounds.Hit(ray)
}

// face returns the vertices and normal of a face, or false when the mesh data is malformed
func (m *TriangleMesh) face(index int) (v0, v1, v2, normal core.Vec3, ok bool) {
	i0, i1, i2 := m.Indices[index*3], m.Indices[index*3+1], m.Indices[index*3+2]
	if i0 < 0 || i1 < 0 || i2 < 0 || i0 >= len(m.positions) || i1 >= len(m.positions) || i2 >= len(m.positions) {
		return
	}
	if index >= len(m.normals) {
		return
	}
	return m.positions[i0], m.positions[i1], m.positions[i2], m.normals[index], true
}

// TestClosest implements Primitive by keeping the closest face hit
func (m *TriangleMesh) TestClosest(ray core.Ray, hit *core.HitRecord) bool {
	if !m.mayHit(ray) {
		return false
	}

	hitAny := false
	for i := 0; i < m.FaceCount(); i++ {
		v0, v1, v2, normal, ok := m.face(i)
		if !ok {
			continue
		}
		t, point, isHit := intersectTriangle(v0, v1, v2, normal, m.CullMode, ray)
		if !isHit {
			continue
		}
		hitAny = true
		hit.Tighten(t, point, normal, m.MaterialIndex)
	}

	return hitAny
}

// TestOcclusion implements Primitive, stopping at the first face that blocks the ray
func (m *TriangleMesh) TestOcclusion(ray core.Ray) bool {
	if !m.mayHit(ray) {
		return false
	}

	cullMode := m.CullMode.ForOcclusion()
	for i := 0; i < m.FaceCount(); i++ {
		v0, v1, v2, normal, ok := m.face(i)
		if !ok {
			continue
		}
		if _, _, isHit := intersectTriangle(v0, v1, v2, normal, cullMode, ray); isHit {
			return true
		}
	}

	return false
}
