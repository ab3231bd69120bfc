package material

import (
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// LambertBRDF returns cd * kd / π
func LambertBRDF(kd float64, cd core.Vec3) core.Vec3 {
	return cd.Multiply(kd / math.Pi)
}

// PhongBRDF returns ks * max(0, r·v)^exp where r mirrors l about n
func PhongBRDF(ks, exp float64, n, l, v core.Vec3) float64 {
	r := n.Multiply(2 * n.Dot(l)).Subtract(l)
	cosAlpha := r.Dot(v)
	if cosAlpha <= 0 {
		return 0
	}
	return ks * math.Pow(cosAlpha, exp)
}
