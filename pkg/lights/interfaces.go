package lights

import (
	"errors"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
	LightTypeRectangular LightType = "rectangular"
	LightTypeDistant     LightType = "distant"
)

// ErrInvalidLight is wrapped by Validate errors
var ErrInvalidLight = errors.New("invalid light")

// Light interface for objects that can be sampled for direct lighting
type Light interface {
	Type() LightType

	// SampleLi samples incident radiance at point from this light.
	// Direction points FROM the shading point TO the light.
	SampleLi(point core.Vec3, u core.Vec2) LightSample

	// IsDelta reports whether the light is a delta distribution in position or direction
	IsDelta() bool

	// Validate checks the light parameters before a render
	Validate() error
}

// Preprocessor is implemented by lights that depend on the scene extent
type Preprocessor interface {
	Preprocess(worldCenter core.Vec3, worldRadius float64) error
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Direction core.Vec3 // Normalized direction from shading point to light
	Distance  float64   // Distance to Point
	Li        core.Vec3 // Incident radiance arriving along Direction
	PDF       float64   // Solid angle density; 1 for delta lights, 0 if the sample is unusable
}

func validPower(v core.Vec3) bool {
	return v.IsFinite() && v.X >= 0 && v.Y >= 0 && v.Z >= 0
}
