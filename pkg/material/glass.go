package material

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Glass is a smooth dielectric with Fresnel-weighted specular reflection and transmission
type Glass struct {
	Reflectance   core.Vec3
	Transmittance core.Vec3
	Eta           float64 // Index of refraction of the inside
}

// NewGlass creates a glass material surrounded by vacuum
func NewGlass(reflectance, transmittance core.Vec3, eta float64) *Glass {
	if eta <= 0 {
		eta = 1.5
	}
	return &Glass{
		Reflectance:   reflectance.Clamp(0, 1),
		Transmittance: transmittance.Clamp(0, 1),
		Eta:           eta,
	}
}

func (g *Glass) Type() MaterialType {
	return MaterialTypeGlass
}

func (g *Glass) BSDF(si *SurfaceInteraction) *BSDF {
	return NewBSDF(si, FresnelSpecular{
		R:    g.Reflectance,
		T:    g.Transmittance,
		EtaA: 1,
		EtaB: g.Eta,
	})
}
