package material

import (
	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Material evaluates how much light arriving from l is reflected toward v.
// Both directions are unit vectors pointing away from the surface.
type Material interface {
	Shade(hit core.HitRecord, l, v core.Vec3) core.Vec3
}

// SolidColor ignores the lighting geometry and returns a flat color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a flat color material
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Shade implements Material
func (s *SolidColor) Shade(hit core.HitRecord, l, v core.Vec3) core.Vec3 {
	return s.Color
}

// Lambert is a perfectly diffuse material
type Lambert struct {
	Diffuse     core.Vec3 // Diffuse color
	Reflectance float64   // Diffuse reflectance kd
}

// NewLambert creates a lambertian material
func NewLambert(diffuse core.Vec3, reflectance float64) *Lambert {
	return &Lambert{Diffuse: diffuse, Reflectance: reflectance}
}

// Shade implements Material
func (m *Lambert) Shade(hit core.HitRecord, l, v core.Vec3) core.Vec3 {
	return LambertBRDF(m.Reflectance, m.Diffuse)
}

// Phong is a gray specular lobe around the mirror direction
type Phong struct {
	Specular float64 // Specular reflectance ks
	Exponent float64 // Glossiness, larger is tighter
}

// NewPhong creates a phong material
func NewPhong(specular, exponent float64) *Phong {
	return &Phong{Specular: specular, Exponent: exponent}
}

// Shade implements Material
func (m *Phong) Shade(hit core.HitRecord, l, v core.Vec3) core.Vec3 {
	return core.Gray(PhongBRDF(m.Specular, m.Exponent, hit.Normal, l, v))
}

// LambertPhong combines a diffuse base with a specular highlight
type LambertPhong struct {
	Diffuse  core.Vec3
	Kd       float64
	Ks       float64
	Exponent float64
}

// NewLambertPhong creates a diffuse plus specular material
func NewLambertPhong(diffuse core.Vec3, kd, ks, exponent float64) *LambertPhong {
	return &LambertPhong{Diffuse: diffuse, Kd: kd, Ks: ks, Exponent: exponent}
}

// Shade implements Material
func (m *LambertPhong) Shade(hit core.HitRecord, l, v core.Vec3) core.Vec3 {
	diffuse := LambertBRDF(m.Kd, m.Diffuse)
	specular := PhongBRDF(m.Ks, m.Exponent, hit.Normal, l, v)
	return diffuse.Add(core.Gray(specular))
}
