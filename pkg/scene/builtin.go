package scene

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

// ErrUnknownScene is returned when no built-in scene has the requested name
var ErrUnknownScene = errors.New("unknown scene")

//go:embed assets/icosahedron.obj
var icosahedronOBJ []byte

var builtins = map[string]func() (*Scene, error){
	"reference":     NewReferenceScene,
	"triangles":     NewTrianglesScene,
	"mesh":          NewMeshScene,
	"single-sphere": NewSingleSphereScene,
}

// Builtin creates the built-in scene with the given name
func Builtin(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return build()
}

// BuiltinNames returns the names accepted by Builtin, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// roomMaterials are shared by the scenes set in the five-plane room
type roomMaterials struct {
	grayBlue, white, red, blue, yellow int
}

// addRoom adds the floor, ceiling and three walls plus the three point lights of the reference setup
func addRoom(s *Scene) roomMaterials {
	m := roomMaterials{
		grayBlue: s.AddMaterial(material.NewLambert(core.NewVec3(0.49, 0.57, 0.57), 1)),
		white:    s.AddMaterial(material.NewLambert(core.Gray(1), 1)),
		red:      s.AddMaterial(material.NewLambertPhong(core.NewVec3(0.75, 0.1, 0.1), 1, 0.5, 60)),
		blue:     s.AddMaterial(material.NewLambertPhong(core.NewVec3(0.1, 0.2, 0.75), 1, 0.5, 40)),
		yellow:   s.AddMaterial(material.NewLambertPhong(core.NewVec3(0.8, 0.7, 0.1), 1, 0.5, 20)),
	}

	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), m.grayBlue) // Back
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), m.grayBlue)   // Floor
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), m.grayBlue) // Ceiling
	s.AddPlane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), m.grayBlue)  // Right
	s.AddPlane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), m.grayBlue)  // Left

	s.AddPointLight(core.NewVec3(0, 5, 5), core.NewVec3(1, 0.61, 0.45), 50)         // Back light
	s.AddPointLight(core.NewVec3(-2.5, 5, -5), core.NewVec3(1, 0.8, 0.45), 70)      // Front left
	s.AddPointLight(core.NewVec3(2.5, 2.5, -5), core.NewVec3(0.34, 0.47, 0.68), 50) // Front right

	return m
}

func roomCamera() *geometry.Camera {
	return geometry.NewCamera(core.NewVec3(0, 3, -9), 45)
}

// NewReferenceScene creates six spheres in the lit room
func NewReferenceScene() (*Scene, error) {
	s := New("reference", roomCamera())
	m := addRoom(s)

	s.AddSphere(core.NewVec3(-1.75, 1, 0), 0.75, m.red)
	s.AddSphere(core.NewVec3(0, 1, 0), 0.75, m.blue)
	s.AddSphere(core.NewVec3(1.75, 1, 0), 0.75, m.yellow)
	s.AddSphere(core.NewVec3(-1.75, 3, 0), 0.75, m.white)
	s.AddSphere(core.NewVec3(0, 3, 0), 0.75, m.red)
	s.AddSphere(core.NewVec3(1.75, 3, 0), 0.75, m.blue)

	return s, nil
}

// NewTrianglesScene shows one triangle per cull mode above a row of spheres.
// From the default camera the back-culled triangle is invisible but still casts a shadow.
func NewTrianglesScene() (*Scene, error) {
	s := New("triangles", roomCamera())
	m := addRoom(s)

	s.AddSphere(core.NewVec3(-1.75, 1, 0), 0.75, m.red)
	s.AddSphere(core.NewVec3(0, 1, 0), 0.75, m.blue)
	s.AddSphere(core.NewVec3(1.75, 1, 0), 0.75, m.yellow)

	// Counter-clockwise when seen from +Z, so the camera at -Z sees the back face
	v0, v1, v2 := core.NewVec3(-0.75, 1.5, 0), core.NewVec3(-0.75, 0, 0), core.NewVec3(0.75, 0, 0)
	for i, cullMode := range []geometry.CullMode{geometry.BackFaceCulling, geometry.FrontFaceCulling, geometry.NoCulling} {
		offset := core.NewVec3(-1.75+1.75*float64(i), 4.5, 0)
		s.AddTriangle(v0.Add(offset), v1.Add(offset), v2.Add(offset), cullMode, m.white)
	}

	return s, nil
}

// NewMeshScene places an embedded low-poly mesh on the floor of the lit room
func NewMeshScene() (*Scene, error) {
	s := New("mesh", roomCamera())
	m := addRoom(s)

	data, err := loaders.ParseOBJ(bytes.NewReader(icosahedronOBJ))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded mesh: %w", err)
	}

	mesh, err := s.AddTriangleMesh(data.Positions, data.Indices, geometry.BackFaceCulling, m.red)
	if err != nil {
		return nil, err
	}
	// The lowest vertices sit at y = -1.618 before scaling
	mesh.Scale(core.Gray(0.8))
	mesh.RotateY(math.Pi / 6)
	mesh.Translate(core.NewVec3(0, 1.3, 0))
	mesh.UpdateTransforms()

	s.AddSphere(core.NewVec3(-3, 1, 1), 0.75, m.blue)
	s.AddSphere(core.NewVec3(3, 1, 1), 0.75, m.yellow)

	return s, nil
}

// NewSingleSphereScene is a unit sphere five units in front of the camera
// lit by a point light at the camera position
func NewSingleSphereScene() (*Scene, error) {
	s := New("single-sphere", geometry.NewCamera(core.Zero, 45))

	white := s.AddMaterial(material.NewLambert(core.Gray(1), 1))
	s.AddSphere(core.NewVec3(0, 0, 5), 1, white)
	s.AddPointLight(core.Zero, core.Gray(1), 10)

	return s, nil
}

// Open resolves a scene reference: paths ending in .yaml or .yml are loaded
// from disk, anything else names a built-in scene
func Open(ref string) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		return Load(ref)
	default:
		return Builtin(ref)
	}
}
