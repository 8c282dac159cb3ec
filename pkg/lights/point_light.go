package lights

import (
	"fmt"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// PointLight emits intensity I uniformly in all directions from a point
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3
}

// NewPointLight creates a point light
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// SampleLi returns I / d² toward the light
func (pl *PointLight) SampleLi(point core.Vec3, u core.Vec2) LightSample {
	return sampleFromPosition(pl.Position, point, pl.Intensity)
}

func (pl *PointLight) IsDelta() bool {
	return true
}

func (pl *PointLight) Validate() error {
	if !pl.Position.IsFinite() {
		return fmt.Errorf("%w: point light position %v", ErrInvalidLight, pl.Position)
	}
	if !validPower(pl.Intensity) {
		return fmt.Errorf("%w: point light intensity %v", ErrInvalidLight, pl.Intensity)
	}
	return nil
}

func sampleFromPosition(position, point, intensity core.Vec3) LightSample {
	toLight := position.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return LightSample{Point: position}
	}
	dist := toLight.Length()
	return LightSample{
		Point:     position,
		Direction: toLight.Multiply(1 / dist),
		Distance:  dist,
		Li:        intensity.Multiply(1 / distSq),
		PDF:       1,
	}
}
