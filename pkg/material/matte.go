package material

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// MatteSigmaThreshold is the roughness below which matte surfaces use the Lambertian lobe
const MatteSigmaThreshold = 1e-3

// Matte is a diffuse material, Lambertian when smooth and Oren-Nayar when rough
type Matte struct {
	Albedo core.Vec3 // Diffuse reflectance
	Sigma  float64   // Facet slope standard deviation in degrees
}

// NewMatte creates a matte material; sigma is clamped to [0, 90] degrees
func NewMatte(albedo core.Vec3, sigma float64) *Matte {
	return &Matte{Albedo: albedo.Clamp(0, 1), Sigma: core.Clamp(sigma, 0, 90)}
}

func (m *Matte) Type() MaterialType {
	return MaterialTypeMatte
}

func (m *Matte) BSDF(si *SurfaceInteraction) *BSDF {
	if m.Sigma < MatteSigmaThreshold {
		return NewBSDF(si, Lambertian{R: m.Albedo})
	}
	return NewBSDF(si, NewOrenNayar(m.Albedo, m.Sigma))
}
