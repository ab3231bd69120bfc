package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// Primitives refer to materials by index into Materials.
type Scene struct {
	Name       string
	Camera     *geometry.Camera
	Primitives []geometry.Primitive
	Materials  []material.Material
	Lights     []lights.Light
}

// New creates an empty scene viewed through camera
func New(name string, camera *geometry.Camera) *Scene {
	return &Scene{
		Name:       name,
		Camera:     camera,
		Primitives: make([]geometry.Primitive, 0),
		Materials:  make([]material.Material, 0),
		Lights:     make([]lights.Light, 0),
	}
}

// AddMaterial registers a material and returns its index
func (s *Scene) AddMaterial(m material.Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddPrimitive appends any primitive to the scene
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, materialIndex int) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, materialIndex)
	s.AddPrimitive(sphere)
	return sphere
}

// AddPlane adds an infinite plane to the scene
func (s *Scene) AddPlane(origin, normal core.Vec3, materialIndex int) *geometry.Plane {
	plane := geometry.NewPlane(origin, normal, materialIndex)
	s.AddPrimitive(plane)
	return plane
}

// AddTriangle adds a single triangle to the scene
func (s *Scene) AddTriangle(v0, v1, v2 core.Vec3, cullMode geometry.CullMode, materialIndex int) *geometry.Triangle {
	triangle := geometry.NewTriangle(v0, v1, v2, cullMode, materialIndex)
	s.AddPrimitive(triangle)
	return triangle
}

// AddTriangleMesh builds a mesh from positions and indices and adds it to the scene
func (s *Scene) AddTriangleMesh(positions []core.Vec3, indices []int, cullMode geometry.CullMode, materialIndex int) (*geometry.TriangleMesh, error) {
	mesh, err := geometry.NewTriangleMesh(positions, indices, cullMode, materialIndex)
	if err != nil {
		return nil, err
	}
	s.AddPrimitive(mesh)
	return mesh, nil
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(origin, color core.Vec3, intensity float64) {
	s.Lights = append(s.Lights, lights.NewPointLight(origin, color, intensity))
}

// AddDirectionalLight adds a directional light to the scene
func (s *Scene) AddDirectionalLight(direction, color core.Vec3, intensity float64) {
	s.Lights = append(s.Lights, lights.NewDirectionalLight(direction, color, intensity))
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *geometry.Camera {
	return s.Camera
}

// GetMaterials returns the material table
func (s *Scene) GetMaterials() []material.Material {
	return s.Materials
}

// GetLights returns the scene lights
func (s *Scene) GetLights() []lights.Light {
	return s.Lights
}

// GetClosestHit returns the nearest intersection along ray over all primitives
func (s *Scene) GetClosestHit(ray core.Ray) core.HitRecord {
	hit := core.NewHitRecord()
	for _, primitive := range s.Primitives {
		primitive.TestClosest(ray, &hit)
	}
	return hit
}

// DoesHit reports whether anything blocks ray, stopping at the first occluder
func (s *Scene) DoesHit(ray core.Ray) bool {
	for _, primitive := range s.Primitives {
		if primitive.TestOcclusion(ray) {
			return true
		}
	}
	return false
}

// GetPrimitiveCount returns the number of triangles, spheres and planes in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, primitive := range s.Primitives {
		switch obj := primitive.(type) {
		case *geometry.TriangleMesh:
			// Meshes count each face
			count += obj.FaceCount()
		default:
			count++
		}
	}
	return count
}

// Bounds returns the box enclosing every finite primitive. Planes are skipped,
// and ok is false when nothing in the scene is bounded.
func (s *Scene) Bounds() (bounds core.AABB, ok bool) {
	for _, primitive := range s.Primitives {
		b, isBounded := primitive.(geometry.Bounded)
		if !isBounded {
			continue
		}
		box := b.BoundingBox()
		if !box.IsValid() {
			continue
		}
		if ok {
			bounds = bounds.Union(box)
		} else {
			bounds, ok = box, true
		}
	}
	return bounds, ok
}

// Validate checks that the scene can be rendered without indexing errors
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("scene %q has no camera", s.Name)
	}

	for i, m := range s.Materials {
		if m == nil {
			return fmt.Errorf("material %d is nil", i)
		}
	}

	for i, primitive := range s.Primitives {
		index, ok, err := materialIndex(primitive)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		if !ok {
			continue
		}
		if index < 0 || index >= len(s.Materials) {
			return fmt.Errorf("primitive %d: material index %d out of range [0,%d)", i, index, len(s.Materials))
		}
	}

	return nil
}

var errNilPrimitive = errors.New("nil primitive")

// materialIndex extracts the material index of the built-in primitive types.
// Primitives of other types have no index to check.
func materialIndex(primitive geometry.Primitive) (int, bool, error) {
	switch p := primitive.(type) {
	case nil:
		return 0, false, errNilPrimitive
	case *geometry.Sphere:
		if p == nil {
			return 0, false, errNilPrimitive
		}
		return p.MaterialIndex, true, nil
	case *geometry.Plane:
		if p == nil {
			return 0, false, errNilPrimitive
		}
		return p.MaterialIndex, true, nil
	case *geometry.Triangle:
		if p == nil {
			return 0, false, errNilPrimitive
		}
		return p.MaterialIndex, true, nil
	case *geometry.TriangleMesh:
		if p == nil {
			return 0, false, errNilPrimitive
		}
		return p.MaterialIndex, true, nil
	default:
		return 0, false, nil
	}
}
