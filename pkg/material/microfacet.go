package material

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// minAlpha keeps the distribution away from a delta peak
const minAlpha = 0.001

// RoughnessToAlpha maps a perceptual roughness in [0,1] to a Trowbridge-Reitz alpha
func RoughnessToAlpha(roughness float64) float64 {
	roughness = math.Max(roughness, 1e-3)
	x := math.Log(roughness)
	alpha := 1.62142 + 0.819955*x + 0.1734*x*x + 0.0171201*x*x*x + 0.000640711*x*x*x*x
	return math.Max(alpha, minAlpha)
}

// TrowbridgeReitz is the isotropic GGX microfacet distribution
type TrowbridgeReitz struct {
	Alpha float64
}

// NewTrowbridgeReitz clamps alpha to the supported minimum
func NewTrowbridgeReitz(alpha float64) TrowbridgeReitz {
	return TrowbridgeReitz{Alpha: math.Max(alpha, minAlpha)}
}

// D is the density of microfacet normals wh
func (d TrowbridgeReitz) D(wh core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(wh)
	if math.IsInf(tan2Theta, 0) || math.IsNaN(tan2Theta) {
		return 0
	}
	cos4Theta := core.Cos2Theta(wh) * core.Cos2Theta(wh)
	a2 := d.Alpha * d.Alpha
	e := 1 + tan2Theta/a2
	return 1 / (math.Pi * a2 * cos4Theta * e * e)
}

// Lambda is the Smith auxiliary function for masking
func (d TrowbridgeReitz) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(core.TanTheta(w))
	if math.IsInf(absTanTheta, 0) || math.IsNaN(absTanTheta) {
		return 0
	}
	alpha2Tan2Theta := (d.Alpha * absTanTheta) * (d.Alpha * absTanTheta)
	return (-1 + math.Sqrt(1+alpha2Tan2Theta)) / 2
}

// G is the masking-shadowing term for a direction pair
func (d TrowbridgeReitz) G(wo, wi core.Vec3) float64 {
	return 1 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

// SampleWh draws a microfacet normal proportional to D(wh)*cos(θh), on the side of wo
func (d TrowbridgeReitz) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	u0 := math.Min(u.X, core.OneMinusEpsilon)
	tan2Theta := d.Alpha * d.Alpha * u0 / (1 - u0)
	cosTheta := 1 / math.Sqrt(1+tan2Theta)
	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * u.Y

	wh := core.SphericalDirection(sinTheta, cosTheta, phi)
	if !core.SameHemisphere(wo, wh) {
		wh = wh.Negate()
	}
	return wh
}

// PDF is the density of SampleWh
func (d TrowbridgeReitz) PDF(wh core.Vec3) float64 {
	return d.D(wh) * core.AbsCosTheta(wh)
}

// MicrofacetReflection is the Torrance-Sparrow reflection lobe
type MicrofacetReflection struct {
	R            core.Vec3
	Distribution TrowbridgeReitz
	Fresnel      Fresnel
}

func (m MicrofacetReflection) F(wo, wi core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	cosThetaO := core.AbsCosTheta(wo)
	cosThetaI := core.AbsCosTheta(wi)
	wh := wi.Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wh.IsZero() {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	fr := m.Fresnel.Evaluate(wi.Dot(wh))
	scale := m.Distribution.D(wh) * m.Distribution.G(wo, wi) / (4 * cosThetaI * cosThetaO)
	return m.R.MultiplyVec(fr).Multiply(scale)
}

func (m MicrofacetReflection) SampleF(wo core.Vec3, u core.Vec2) (BSDFSample, bool) {
	if wo.Z == 0 {
		return BSDFSample{}, false
	}
	wh := m.Distribution.SampleWh(wo, u)
	if wo.Dot(wh) < 0 {
		return BSDFSample{}, false
	}
	wi := reflectVector(wo, wh)
	if !core.SameHemisphere(wo, wi) {
		return BSDFSample{}, false
	}
	pdf := m.PDF(wo, wi)
	if pdf == 0 {
		return BSDFSample{}, false
	}
	return BSDFSample{Wi: wi, F: m.F(wo, wi), PDF: pdf, Flags: m.Flags()}, true
}

func (m MicrofacetReflection) PDF(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	wh := wo.Add(wi)
	if wh.IsZero() {
		return 0
	}
	wh = wh.Normalize()
	dot := wo.Dot(wh)
	if dot == 0 {
		return 0
	}
	return m.Distribution.PDF(wh) / (4 * math.Abs(dot))
}

func (m MicrofacetReflection) Flags() BxDFFlags {
	return BxDFReflection | BxDFGlossy
}
