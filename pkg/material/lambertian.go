package material

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Lambertian is a perfectly diffuse reflection lobe
type Lambertian struct {
	R core.Vec3 // Reflectance
}

// F returns R/π for directions on the same side of the surface
func (l Lambertian) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	// BRDF: albedo / π (proper energy conservation)
	return l.R.Multiply(1.0 / math.Pi)
}

// SampleF draws a cosine-weighted direction on the side of wo
func (l Lambertian) SampleF(wo core.Vec3, u core.Vec2) (BSDFSample, bool) {
	return sampleCosineLobe(l, wo, u)
}

// PDF calculates the cosine-weighted density: cos(θ) / π
func (l Lambertian) PDF(wo, wi core.Vec3) float64 {
	return cosineLobePDF(wo, wi)
}

func (l Lambertian) Flags() BxDFFlags {
	return BxDFReflection | BxDFDiffuse
}

// sampleCosineLobe is shared by the diffuse lobes
func sampleCosineLobe(b BxDF, wo core.Vec3, u core.Vec2) (BSDFSample, bool) {
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := cosineLobePDF(wo, wi)
	if pdf == 0 {
		return BSDFSample{}, false
	}
	return BSDFSample{Wi: wi, F: b.F(wo, wi), PDF: pdf, Flags: b.Flags()}, true
}

func cosineLobePDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}
