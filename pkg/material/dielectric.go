package material

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// FresnelSpecular picks perfect reflection or refraction with probability given by the Fresnel term
type FresnelSpecular struct {
	R, T       core.Vec3 // Reflection and transmission tints
	EtaA, EtaB float64   // Outside and inside indices of refraction
}

// F is zero, the lobes are delta distributions
func (f FresnelSpecular) F(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for any explicitly given direction pair
func (f FresnelSpecular) PDF(wo, wi core.Vec3) float64 {
	return 0
}

func (f FresnelSpecular) Flags() BxDFFlags {
	return BxDFReflection | BxDFTransmission | BxDFSpecular
}

// SampleF reflects with probability Fr and refracts otherwise.
// Total internal reflection gives Fr = 1 and always reflects.
func (f FresnelSpecular) SampleF(wo core.Vec3, u core.Vec2) (BSDFSample, bool) {
	fr := FrDielectric(core.CosTheta(wo), f.EtaA, f.EtaB)
	if u.X < fr {
		s, ok := f.reflect(wo, fr)
		s.PDF = fr
		return s, ok
	}
	s, ok := f.transmit(wo, fr)
	s.PDF = 1 - fr
	return s, ok
}

// Reflect returns the mirror lobe weighted by Fr, with PDF 1
func (f FresnelSpecular) Reflect(wo core.Vec3) (BSDFSample, bool) {
	return f.reflect(wo, FrDielectric(core.CosTheta(wo), f.EtaA, f.EtaB))
}

// Transmit returns the refracted lobe weighted by 1-Fr, with PDF 1
func (f FresnelSpecular) Transmit(wo core.Vec3) (BSDFSample, bool) {
	return f.transmit(wo, FrDielectric(core.CosTheta(wo), f.EtaA, f.EtaB))
}

func (f FresnelSpecular) reflect(wo core.Vec3, fr float64) (BSDFSample, bool) {
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	cos := core.AbsCosTheta(wi)
	if cos == 0 {
		return BSDFSample{}, false
	}
	return BSDFSample{
		Wi:    wi,
		F:     f.R.Multiply(fr / cos),
		PDF:   1,
		Flags: BxDFReflection | BxDFSpecular,
	}, true
}

func (f FresnelSpecular) transmit(wo core.Vec3, fr float64) (BSDFSample, bool) {
	entering := core.CosTheta(wo) > 0
	etaI, etaT := f.EtaA, f.EtaB
	n := core.NewVec3(0, 0, 1)
	if !entering {
		etaI, etaT = etaT, etaI
		n = n.Negate()
	}

	wi, ok := refract(wo, n, etaI/etaT)
	if !ok {
		return BSDFSample{}, false
	}
	cos := core.AbsCosTheta(wi)
	if cos == 0 {
		return BSDFSample{}, false
	}
	return BSDFSample{
		Wi:    wi,
		F:     f.T.Multiply((1 - fr) / cos),
		PDF:   1,
		Flags: BxDFTransmission | BxDFSpecular,
	}, true
}

// reflectVector calculates the reflection of wo about n, both pointing away from the surface
func reflectVector(wo, n core.Vec3) core.Vec3 {
	return wo.Negate().Add(n.Multiply(2 * wo.Dot(n)))
}

// refract bends wo through a surface with normal n on the side of wo, eta = etaI/etaT.
// Returns false on total internal reflection.
func refract(wo, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := n.Dot(wo)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	return wo.Negate().Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT)), true
}
