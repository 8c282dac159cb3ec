package material

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// OrenNayar is a rough diffuse lobe modelling microfacet masking and retro-reflection
type OrenNayar struct {
	R    core.Vec3
	a, b float64
}

// NewOrenNayar creates the lobe for a facet slope standard deviation sigma, in degrees
func NewOrenNayar(r core.Vec3, sigmaDegrees float64) OrenNayar {
	sigma := core.Radians(sigmaDegrees)
	sigma2 := sigma * sigma
	return OrenNayar{
		R: r,
		a: 1 - sigma2/(2*(sigma2+0.33)),
		b: 0.45 * sigma2 / (sigma2 + 0.09),
	}
}

func (o OrenNayar) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}

	sinThetaI := core.SinTheta(wi)
	sinThetaO := core.SinTheta(wo)

	maxCos := 0.0
	if sinThetaI > 1e-4 && sinThetaO > 1e-4 {
		dCos := core.CosPhi(wi)*core.CosPhi(wo) + core.SinPhi(wi)*core.SinPhi(wo)
		maxCos = math.Max(0, dCos)
	}

	// sin(alpha) * tan(beta) with alpha the larger polar angle
	var sinAlpha, tanBeta float64
	if core.AbsCosTheta(wi) > core.AbsCosTheta(wo) {
		sinAlpha = sinThetaO
		tanBeta = sinThetaI / core.AbsCosTheta(wi)
	} else {
		sinAlpha = sinThetaI
		tanBeta = sinThetaO / core.AbsCosTheta(wo)
	}

	return o.R.Multiply((o.a + o.b*maxCos*sinAlpha*tanBeta) / math.Pi)
}

func (o OrenNayar) SampleF(wo core.Vec3, u core.Vec2) (BSDFSample, bool) {
	return sampleCosineLobe(o, wo, u)
}

func (o OrenNayar) PDF(wo, wi core.Vec3) float64 {
	return cosineLobePDF(wo, wi)
}

func (o OrenNayar) Flags() BxDFFlags {
	return BxDFReflection | BxDFDiffuse
}
