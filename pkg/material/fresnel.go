package material

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Fresnel returns the reflected fraction per RGB channel
type Fresnel interface {
	Evaluate(cosThetaI float64) core.Vec3
}

// FrDielectric is the unpolarized Fresnel reflectance between two dielectrics.
// cosThetaI may be negative when the incident direction is on the inside.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = math.Abs(cosThetaI)
	}

	sinThetaI := core.SafeSqrt(1 - cosThetaI*cosThetaI)
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		// Total internal reflection
		return 1
	}
	cosThetaT := core.SafeSqrt(1 - sinThetaT*sinThetaT)

	rParl := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerp := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// frConductorChannel evaluates the exact conductor Fresnel equations for one channel
func frConductorChannel(cosThetaI, etaI, etaT, k float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	eta := etaT / etaI
	etaK := k / etaI

	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2 := eta * eta
	etaK2 := etaK * etaK

	t0 := eta2 - etaK2 - sin2
	a2plusb2 := math.Sqrt(t0*t0 + 4*eta2*etaK2)
	t1 := a2plusb2 + cos2
	a := core.SafeSqrt(0.5 * (a2plusb2 + t0))
	t2 := 2 * cosThetaI * a
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2*a2plusb2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs * (t3 - t4) / (t3 + t4)

	return 0.5 * (rp + rs)
}

// ConductorFresnel uses a complex index of refraction eta + i*k per channel
type ConductorFresnel struct {
	EtaI core.Vec3
	EtaT core.Vec3
	K    core.Vec3
}

func (f ConductorFresnel) Evaluate(cosThetaI float64) core.Vec3 {
	c := math.Abs(cosThetaI)
	return core.NewVec3(
		frConductorChannel(c, f.EtaI.X, f.EtaT.X, f.K.X),
		frConductorChannel(c, f.EtaI.Y, f.EtaT.Y, f.K.Y),
		frConductorChannel(c, f.EtaI.Z, f.EtaT.Z, f.K.Z),
	)
}

// SchlickFresnel approximates reflectance from its value at normal incidence
type SchlickFresnel struct {
	R0 core.Vec3
}

func (f SchlickFresnel) Evaluate(cosThetaI float64) core.Vec3 {
	m := 1 - math.Abs(cosThetaI)
	m5 := m * m * m * m * m
	return f.R0.Add(core.Splat(1).Subtract(f.R0).Multiply(m5))
}

// DielectricFresnel wraps FrDielectric for microfacet use
type DielectricFresnel struct {
	EtaI, EtaT float64
}

func (f DielectricFresnel) Evaluate(cosThetaI float64) core.Vec3 {
	return core.Splat(FrDielectric(cosThetaI, f.EtaI, f.EtaT))
}
