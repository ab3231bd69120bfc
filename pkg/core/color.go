package core

// Common colors
var (
	Black = Vec3{}
	White = Vec3{X: 1, Y: 1, Z: 1}
	Red   = Vec3{X: 1}
	Green = Vec3{Y: 1}
	Blue  = Vec3{Z: 1}
)

// MaxToOne scales a color down so its brightest channel is at most 1.
// Colors already inside [0,1] are returned unchanged, which makes the mapping idempotent.
func (v Vec3) MaxToOne() Vec3 {
	maxValue := v.MaxComponent()
	if maxValue > 1.0 {
		return v.Multiply(1.0 / maxValue)
	}
	return v
}

// ToRGB8 converts a color in [0,1] to 8-bit channels.
// Negative channels are clamped to zero before conversion.
func (v Vec3) ToRGB8() (r, g, b uint8) {
	c := v.Clamp(0.0, 1.0)
	return uint8(c.X * 255), uint8(c.Y * 255), uint8(c.Z * 255)
}
