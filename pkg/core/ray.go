package core

import "math"

// ShadowEpsilon shortens shadow rays so they stop just before the light
const ShadowEpsilon = 1e-4

// Ray is a half-line restricted to the parametric interval [TMin, TMax]
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMin      float64
	TMax      float64
}

// NewRay creates an unbounded ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, TMin: 0, TMax: math.Inf(1)}
}

// NewRaySegment creates a ray limited to [tMin, tMax]
func NewRaySegment(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{Origin: origin, Direction: direction, TMin: tMin, TMax: tMax}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Valid reports whether the interval is ordered and the direction non-zero
func (r Ray) Valid() bool {
	return r.TMin <= r.TMax && !r.Direction.IsZero() && r.Direction.IsFinite() && r.Origin.IsFinite()
}
