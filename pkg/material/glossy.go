package material

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Glossy is a microfacet reflector parameterized by its reflectance at normal incidence
type Glossy struct {
	Rs        core.Vec3 // Specular reflectance at normal incidence
	Roughness float64   // alpha = roughness²
}

// NewGlossy creates a glossy material
func NewGlossy(rs core.Vec3, roughness float64) *Glossy {
	return &Glossy{Rs: rs.Clamp(0, 1), Roughness: core.Clamp(roughness, 0, 1)}
}

func (g *Glossy) Type() MaterialType {
	return MaterialTypeGlossy
}

func (g *Glossy) BSDF(si *SurfaceInteraction) *BSDF {
	return NewBSDF(si, MicrofacetReflection{
		R:            core.Splat(1),
		Distribution: NewTrowbridgeReitz(g.Roughness * g.Roughness),
		Fresnel:      SchlickFresnel{R0: g.Rs},
	})
}
