package scene

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/lights"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
	"github.com/df07/go-direct-raytracer/pkg/material"
)

// Load reads a YAML scene description and builds the scene.
// Mesh files are resolved relative to the description's directory.
func Load(path string) (*Scene, error) {
	desc, err := loaders.LoadSceneDescription(path)
	if err != nil {
		return nil, err
	}
	return FromDescription(desc, filepath.Dir(path))
}

// SourceFiles returns the description file followed by every mesh file it references
func SourceFiles(path string) ([]string, error) {
	desc, err := loaders.LoadSceneDescription(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	for _, m := range desc.Meshes {
		files = append(files, meshPath(filepath.Dir(path), m.File))
	}
	return files, nil
}

func meshPath(baseDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(baseDir, file)
}

// FromDescription builds a scene from a parsed description
func FromDescription(desc *loaders.SceneDescription, baseDir string) (*Scene, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	camera := geometry.NewCamera(desc.Camera.Origin.Vec3(), desc.Camera.FOV)
	camera.SetYawPitch(mgl64.DegToRad(desc.Camera.Yaw), mgl64.DegToRad(desc.Camera.Pitch))
	camera.Update()

	name := desc.Name
	if name == "" {
		name = "untitled"
	}
	s := New(name, camera)

	materialIndices := make(map[string]int, len(desc.Materials))
	for _, m := range desc.Materials {
		materialIndices[m.Name] = s.AddMaterial(newMaterial(m))
	}

	for _, sphere := range desc.Spheres {
		s.AddSphere(sphere.Center.Vec3(), sphere.Radius, materialIndices[sphere.Material])
	}

	for _, plane := range desc.Planes {
		s.AddPlane(plane.Origin.Vec3(), plane.Normal.Vec3(), materialIndices[plane.Material])
	}

	for _, tr := range desc.Triangles {
		cullMode, err := geometry.ParseCullMode(tr.Cull)
		if err != nil {
			return nil, err
		}
		s.AddTriangle(tr.Vertices[0].Vec3(), tr.Vertices[1].Vec3(), tr.Vertices[2].Vec3(), cullMode, materialIndices[tr.Material])
	}

	for i, m := range desc.Meshes {
		if err := addMesh(s, m, baseDir, materialIndices[m.Material]); err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	for _, l := range desc.Lights {
		switch lights.LightType(l.Type) {
		case lights.LightTypePoint:
			s.AddPointLight(l.Origin.Vec3(), l.Color.Vec3(), l.Intensity)
		case lights.LightTypeDirectional:
			s.AddDirectionalLight(l.Direction.Vec3(), l.Color.Vec3(), l.Intensity)
		}
	}

	return s, nil
}

func newMaterial(m loaders.MaterialDescription) material.Material {
	color := m.Color.Vec3()
	switch m.Type {
	case loaders.MaterialLambert:
		return material.NewLambert(color, m.Kd)
	case loaders.MaterialPhong:
		return material.NewPhong(m.Ks, m.Exponent)
	case loaders.MaterialLambertPhong:
		return material.NewLambertPhong(color, m.Kd, m.Ks, m.Exponent)
	default:
		return material.NewSolidColor(color)
	}
}

func addMesh(s *Scene, m loaders.MeshDescription, baseDir string, materialIndex int) error {
	cullMode, err := geometry.ParseCullMode(m.Cull)
	if err != nil {
		return err
	}

	data, err := loaders.LoadOBJ(meshPath(baseDir, m.File))
	if err != nil {
		return err
	}

	mesh, err := geometry.NewTriangleMeshWithNormals(data.Positions, data.Normals, data.Indices, cullMode, materialIndex)
	if err != nil {
		return err
	}

	scale := core.Gray(1)
	if m.Scale != nil {
		scale = m.Scale.Vec3()
	}
	mesh.Scale(scale)
	mesh.RotateY(mgl64.DegToRad(m.RotateY))
	mesh.Translate(m.Translate.Vec3())
	mesh.UpdateTransforms()

	s.AddPrimitive(mesh)
	return nil
}
