package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
)

// Material types accepted in scene descriptions
const (
	MaterialSolid        = "solid"
	MaterialLambert      = "lambert"
	MaterialPhong        = "phong"
	MaterialLambertPhong = "lambert-phong"
)

// DefaultFOV is the vertical field of view used when a description leaves it out
const DefaultFOV = 45.0

// Vector is a 3-component vector written as a YAML sequence [x, y, z]
type Vector [3]float64

// Vec3 converts the vector to a core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// UnmarshalYAML requires exactly three numbers
func (v *Vector) UnmarshalYAML(node *yaml.Node) error {
	var values []float64
	if err := node.Decode(&values); err != nil {
		return fmt.Errorf("line %d: vector must be a sequence of numbers: %w", node.Line, err)
	}
	if len(values) != 3 {
		return fmt.Errorf("line %d: vector must have 3 components, got %d", node.Line, len(values))
	}
	*v = Vector{values[0], values[1], values[2]}
	return nil
}

// SceneDescription is the on-disk form of a scene
type SceneDescription struct {
	Name      string                `yaml:"name"`
	Camera    CameraDescription     `yaml:"camera"`
	Materials []MaterialDescription `yaml:"materials"`
	Spheres   []SphereDescription   `yaml:"spheres"`
	Planes    []PlaneDescription    `yaml:"planes"`
	Triangles []TriangleDescription `yaml:"triangles"`
	Meshes    []MeshDescription     `yaml:"meshes"`
	Lights    []LightDescription    `yaml:"lights"`
}

// CameraDescription places the camera. Angles are in degrees.
type CameraDescription struct {
	Origin Vector  `yaml:"origin"`
	FOV    float64 `yaml:"fov"`
	Yaw    float64 `yaml:"yaw"`
	Pitch  float64 `yaml:"pitch"`
}

// MaterialDescription defines a named material. Unused fields for a type are ignored.
type MaterialDescription struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Color    Vector  `yaml:"color"`
	Kd       float64 `yaml:"kd"`
	Ks       float64 `yaml:"ks"`
	Exponent float64 `yaml:"exponent"`
}

type SphereDescription struct {
	Center   Vector  `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

type PlaneDescription struct {
	Origin   Vector `yaml:"origin"`
	Normal   Vector `yaml:"normal"`
	Material string `yaml:"material"`
}

type TriangleDescription struct {
	Vertices []Vector `yaml:"vertices"`
	Cull     string   `yaml:"cull"`
	Material string   `yaml:"material"`
}

// MeshDescription references an OBJ file, relative to the description file.
// The transform is applied as scale, then yaw rotation (degrees), then translation.
type MeshDescription struct {
	File      string  `yaml:"file"`
	Cull      string  `yaml:"cull"`
	Material  string  `yaml:"material"`
	Translate Vector  `yaml:"translate"`
	RotateY   float64 `yaml:"rotate_y"`
	Scale     *Vector `yaml:"scale"`
}

type LightDescription struct {
	Type      string  `yaml:"type"`
	Origin    Vector  `yaml:"origin"`
	Direction Vector  `yaml:"direction"`
	Color     Vector  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
}

// ParseSceneDescription decodes and validates a YAML scene description.
// Unknown keys are rejected so typos do not silently drop content.
func ParseSceneDescription(data []byte) (*SceneDescription, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var desc SceneDescription
	if err := decoder.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene description")
		}
		return nil, fmt.Errorf("decoding scene description: %w", err)
	}

	if desc.Camera.FOV == 0 {
		desc.Camera.FOV = DefaultFOV
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// LoadSceneDescription reads and parses a YAML scene description file
func LoadSceneDescription(filename string) (*SceneDescription, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene description: %w", err)
	}

	desc, err := ParseSceneDescription(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return desc, nil
}

// Validate checks names and references so building the scene cannot fail on them
func (d *SceneDescription) Validate() error {
	if d.Camera.FOV <= 0 || d.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %v", d.Camera.FOV)
	}

	materials := make(map[string]bool, len(d.Materials))
	for i, m := range d.Materials {
		if m.Name == "" {
			return fmt.Errorf("material %d: missing name", i)
		}
		if materials[m.Name] {
			return fmt.Errorf("material %q defined twice", m.Name)
		}
		switch m.Type {
		case MaterialSolid, MaterialLambert, MaterialPhong, MaterialLambertPhong:
		default:
			return fmt.Errorf("material %q: unknown type %q", m.Name, m.Type)
		}
		materials[m.Name] = true
	}

	checkMaterial := func(kind string, index int, name string) error {
		if !materials[name] {
			return fmt.Errorf("%s %d: unknown material %q", kind, index, name)
		}
		return nil
	}

	for i, s := range d.Spheres {
		if err := checkMaterial("sphere", i, s.Material); err != nil {
			return err
		}
		if s.Radius <= 0 {
			return fmt.Errorf("sphere %d: radius must be positive, got %v", i, s.Radius)
		}
	}

	for i, p := range d.Planes {
		if err := checkMaterial("plane", i, p.Material); err != nil {
			return err
		}
		if p.Normal.Vec3().IsZero() {
			return fmt.Errorf("plane %d: normal must not be zero", i)
		}
	}

	for i, tr := range d.Triangles {
		if err := checkMaterial("triangle", i, tr.Material); err != nil {
			return err
		}
		if len(tr.Vertices) != 3 {
			return fmt.Errorf("triangle %d: needs 3 vertices, got %d", i, len(tr.Vertices))
		}
		if _, err := geometry.ParseCullMode(tr.Cull); err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
	}

	for i, m := range d.Meshes {
		if err := checkMaterial("mesh", i, m.Material); err != nil {
			return err
		}
		if m.File == "" {
			return fmt.Errorf("mesh %d: missing file", i)
		}
		if _, err := geometry.ParseCullMode(m.Cull); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	for i, l := range d.Lights {
		lightType, err := lights.ParseLightType(l.Type)
		if err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
		if lightType == lights.LightTypeDirectional && l.Direction.Vec3().IsZero() {
			return fmt.Errorf("light %d: directional light needs a direction", i)
		}
	}

	return nil
}
