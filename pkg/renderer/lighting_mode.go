package renderer

import "fmt"

// LightingMode selects what each light contributes to a pixel
type LightingMode int

const (
	ObservedArea LightingMode = iota // Lambert cosine only, as gray
	Radiance                         // Incident radiance only
	BRDF                             // Material response only
	Combined                         // Radiance * BRDF * cosine
	lightingModeCount
)

// String returns the configuration name of the mode
func (m LightingMode) String() string {
	switch m {
	case ObservedArea:
		return "observed-area"
	case Radiance:
		return "radiance"
	case BRDF:
		return "brdf"
	case Combined:
		return "combined"
	default:
		return fmt.Sprintf("LightingMode(%d)", int(m))
	}
}

// ParseLightingMode converts a configuration name into a LightingMode
func ParseLightingMode(name string) (LightingMode, error) {
	for m := ObservedArea; m < lightingModeCount; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return Combined, fmt.Errorf("unknown lighting mode %q", name)
}

// LightingModeNames lists every mode in cycling order
func LightingModeNames() []string {
	names := make([]string, 0, lightingModeCount)
	for m := ObservedArea; m < lightingModeCount; m++ {
		names = append(names, m.String())
	}
	return names
}

// next returns the mode after m, wrapping around
func (m LightingMode) next() LightingMode {
	return (m + 1) % lightingModeCount
}
