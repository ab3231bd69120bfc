package lights

import (
	"fmt"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// ParseLightType converts a configuration name into a LightType
func ParseLightType(name string) (LightType, error) {
	switch LightType(name) {
	case LightTypePoint, LightTypeDirectional:
		return LightType(name), nil
	default:
		return "", fmt.Errorf("unknown light type %q", name)
	}
}

// Light is an ideal emitter used for direct lighting.
// Point lights use Origin, directional lights use Direction (the way light travels).
type Light struct {
	Type      LightType
	Origin    core.Vec3
	Direction core.Vec3 // Unit vector
	Color     core.Vec3
	Intensity float64
}

// NewPointLight creates a light radiating from origin in all directions
func NewPointLight(origin, color core.Vec3, intensity float64) Light {
	return Light{
		Type:      LightTypePoint,
		Origin:    origin,
		Color:     color,
		Intensity: intensity,
	}
}

// NewDirectionalLight creates a light infinitely far away shining along direction
func NewDirectionalLight(direction, color core.Vec3, intensity float64) Light {
	return Light{
		Type:      LightTypeDirectional,
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

// DirectionToLight returns the vector from point toward the light.
// For point lights it is not normalized: its length is the distance to the light.
func DirectionToLight(light Light, point core.Vec3) core.Vec3 {
	switch light.Type {
	case LightTypePoint:
		return light.Origin.Subtract(point)
	case LightTypeDirectional:
		return light.Direction.Negate()
	default:
		return core.Vec3{}
	}
}

// Radiance returns the light arriving at point, ignoring occlusion
func Radiance(light Light, point core.Vec3) core.Vec3 {
	switch light.Type {
	case LightTypePoint:
		// Inverse square falloff
		return light.Color.Multiply(light.Intensity / light.Origin.Subtract(point).LengthSquared())
	case LightTypeDirectional:
		return light.Color.Multiply(light.Intensity)
	default:
		return core.Vec3{}
	}
}

// IsFinite reports whether shadow rays toward this light should stop at the light
func (l Light) IsFinite() bool {
	return l.Type == LightTypePoint
}
