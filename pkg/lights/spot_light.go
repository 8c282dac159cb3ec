package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// SpotLight is a point light restricted to a cone with a smooth edge
type SpotLight struct {
	Position        core.Vec3
	Direction       core.Vec3 // Normalized cone axis, pointing away from the light
	Intensity       core.Vec3
	cosTotalWidth   float64 // Cosine of the cone half-angle
	cosFalloffStart float64 // Cosine of the angle where falloff begins
}

// NewSpotLight aims a spot light from one point to another.
// totalWidth and falloffStart are half-angles in degrees.
func NewSpotLight(from, to, intensity core.Vec3, totalWidth, falloffStart float64) *SpotLight {
	falloffStart = math.Min(falloffStart, totalWidth)
	return &SpotLight{
		Position:        from,
		Direction:       to.Subtract(from).Normalize(),
		Intensity:       intensity,
		cosTotalWidth:   math.Cos(core.Radians(totalWidth)),
		cosFalloffStart: math.Cos(core.Radians(falloffStart)),
	}
}

func (sl *SpotLight) Type() LightType {
	return LightTypeSpot
}

func (sl *SpotLight) SampleLi(point core.Vec3, u core.Vec2) LightSample {
	sample := sampleFromPosition(sl.Position, point, sl.Intensity)
	sample.Li = sample.Li.Multiply(sl.Falloff(sample.Direction.Negate()))
	return sample
}

// Falloff scales intensity for light leaving in direction w: one inside the inner cone,
// zero outside the outer cone, and a quartic ramp in cosine between them.
func (sl *SpotLight) Falloff(w core.Vec3) float64 {
	cosTheta := w.Normalize().Dot(sl.Direction)
	if cosTheta < sl.cosTotalWidth {
		return 0
	}
	if cosTheta >= sl.cosFalloffStart {
		return 1
	}
	delta := (cosTheta - sl.cosTotalWidth) / (sl.cosFalloffStart - sl.cosTotalWidth)
	return (delta * delta) * (delta * delta)
}

func (sl *SpotLight) IsDelta() bool {
	return true
}

func (sl *SpotLight) Validate() error {
	if !sl.Position.IsFinite() || !sl.Direction.IsFinite() || sl.Direction.IsZero() {
		return fmt.Errorf("%w: spot light placement", ErrInvalidLight)
	}
	if !validPower(sl.Intensity) {
		return fmt.Errorf("%w: spot light intensity %v", ErrInvalidLight, sl.Intensity)
	}
	return nil
}
