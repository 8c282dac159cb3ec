package material

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Metal is a rough conductor using the Torrance-Sparrow model with exact conductor Fresnel
type Metal struct {
	Eta       core.Vec3 // Real part of the index of refraction per channel
	K         core.Vec3 // Absorption coefficient per channel
	Roughness float64   // Perceptual roughness, remapped to alpha
}

// Measured complex indices of refraction at roughly 650/550/450 nm
var (
	MetalGold      = Metal{Eta: core.NewVec3(0.143, 0.374, 1.442), K: core.NewVec3(3.983, 2.385, 1.603)}
	MetalSilver    = Metal{Eta: core.NewVec3(0.155, 0.117, 0.138), K: core.NewVec3(4.828, 3.122, 2.147)}
	MetalCopper    = Metal{Eta: core.NewVec3(0.200, 0.924, 1.102), K: core.NewVec3(3.912, 2.452, 2.142)}
	MetalAluminium = Metal{Eta: core.NewVec3(1.657, 0.880, 0.521), K: core.NewVec3(9.224, 6.270, 4.837)}
)

// NewMetal creates a metal material
func NewMetal(eta, k core.Vec3, roughness float64) *Metal {
	return &Metal{Eta: eta, K: k, Roughness: core.Clamp(roughness, 0, 1)}
}

// NewMetalPreset copies a preset with the given roughness
func NewMetalPreset(preset Metal, roughness float64) *Metal {
	return NewMetal(preset.Eta, preset.K, roughness)
}

func (m *Metal) Type() MaterialType {
	return MaterialTypeMetal
}

func (m *Metal) BSDF(si *SurfaceInteraction) *BSDF {
	return NewBSDF(si, MicrofacetReflection{
		R:            core.Splat(1),
		Distribution: NewTrowbridgeReitz(RoughnessToAlpha(m.Roughness)),
		Fresnel:      ConductorFresnel{EtaI: core.Splat(1), EtaT: m.Eta, K: m.K},
	})
}
