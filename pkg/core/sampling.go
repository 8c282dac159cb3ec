package core

import (
	"math"
)

// SampleCosineHemisphere returns a cosine-weighted direction around +Z in the local shading frame
func SampleCosineHemisphere(sample Vec2) Vec3 {
	d := SampleConcentricDisk(sample)
	z := SafeSqrt(1 - d.X*d.X - d.Y*d.Y)
	return NewVec3(d.X, d.Y, z)
}

// CosineHemispherePDF is the density of SampleCosineHemisphere for a direction with the given cosine
func CosineHemispherePDF(cosTheta float64) float64 {
	return cosTheta / math.Pi
}

// SampleUniformHemisphere returns a uniformly distributed direction around +Z
func SampleUniformHemisphere(sample Vec2) Vec3 {
	z := sample.X
	r := SafeSqrt(1 - z*z)
	phi := 2 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformHemispherePDF is the density of SampleUniformHemisphere
func UniformHemispherePDF() float64 {
	return 1 / (2 * math.Pi)
}

// SampleConcentricDisk maps a unit square sample to the unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SampleConcentricDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// Frame is an orthonormal basis with N as the local +Z axis
type Frame struct {
	S, T, N Vec3
}

// NewFrame builds a basis around the unit vector n
func NewFrame(n Vec3) Frame {
	// Duff et al. 2017, branchless orthonormal basis
	sign := math.Copysign(1, n.Z)
	a := -1 / (sign + n.Z)
	b := n.X * n.Y * a
	s := NewVec3(1+sign*n.X*n.X*a, sign*b, -sign*n.X)
	t := NewVec3(b, sign+n.Y*n.Y*a, -n.Y)
	return Frame{S: s, T: t, N: n}
}

// ToLocal expresses a world direction in the frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.S), v.Dot(f.T), v.Dot(f.N))
}

// ToWorld expresses a local direction in world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.S.Multiply(v.X).Add(f.T.Multiply(v.Y)).Add(f.N.Multiply(v.Z))
}

// Helpers for directions expressed in a local shading frame

// CosTheta returns the cosine of the angle with +Z
func CosTheta(w Vec3) float64 { return w.Z }

// AbsCosTheta returns |cos| of the angle with +Z
func AbsCosTheta(w Vec3) float64 { return math.Abs(w.Z) }

// Cos2Theta returns cos² of the angle with +Z
func Cos2Theta(w Vec3) float64 { return w.Z * w.Z }

// Sin2Theta returns sin² of the angle with +Z
func Sin2Theta(w Vec3) float64 { return math.Max(0, 1-Cos2Theta(w)) }

// SinTheta returns sin of the angle with +Z
func SinTheta(w Vec3) float64 { return math.Sqrt(Sin2Theta(w)) }

// TanTheta returns tan of the angle with +Z
func TanTheta(w Vec3) float64 { return SinTheta(w) / CosTheta(w) }

// Tan2Theta returns tan² of the angle with +Z
func Tan2Theta(w Vec3) float64 { return Sin2Theta(w) / Cos2Theta(w) }

// CosPhi returns the cosine of the azimuth
func CosPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return Clamp(w.X/sinTheta, -1, 1)
}

// SinPhi returns the sine of the azimuth
func SinPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return Clamp(w.Y/sinTheta, -1, 1)
}

// SameHemisphere reports whether both local directions lie on the same side of the surface
func SameHemisphere(a, b Vec3) bool {
	return a.Z*b.Z > 0
}

// SphericalDirection builds a local direction from spherical angles
func SphericalDirection(sinTheta, cosTheta, phi float64) Vec3 {
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}
