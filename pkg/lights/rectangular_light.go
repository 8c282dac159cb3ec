package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/geometry"
)

// RectangularLight is a one-sided area light on a parallelogram.
// It emits from the side its normal U × V points to.
type RectangularLight struct {
	L    core.Vec3 // Emitted radiance
	quad *geometry.Quad
}

// NewRectangularLight creates the light and the surface that represents it in the scene
func NewRectangularLight(corner, u, v, radiance core.Vec3) *RectangularLight {
	light := &RectangularLight{L: radiance}
	light.quad = geometry.NewQuad(corner, u, v, nil)
	light.quad.Emitter = light
	return light
}

func (rl *RectangularLight) Type() LightType {
	return LightTypeRectangular
}

// Shape returns the emitting surface so camera and BSDF rays can hit it
func (rl *RectangularLight) Shape() geometry.Shape {
	return rl.quad
}

// SampleLi picks a point uniformly by area and converts the density to solid angle
func (rl *RectangularLight) SampleLi(point core.Vec3, u core.Vec2) LightSample {
	q := rl.quad
	p := q.Corner.Add(q.U.Multiply(u.X)).Add(q.V.Multiply(u.Y))

	toLight := p.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return LightSample{Point: p}
	}
	dist := math.Sqrt(distSq)
	wi := toLight.Multiply(1 / dist)

	cosLight := q.Normal.Dot(wi.Negate())
	sample := LightSample{Point: p, Direction: wi, Distance: dist}
	if cosLight == 0 {
		return sample
	}
	sample.PDF = distSq / (math.Abs(cosLight) * q.Area())
	if cosLight > 0 {
		sample.Li = rl.L
	}
	return sample
}

// Radiance implements material.Emitter: emission leaves only the front side
func (rl *RectangularLight) Radiance(n, w core.Vec3) core.Vec3 {
	if n.Dot(w) > 0 {
		return rl.L
	}
	return core.Vec3{}
}

func (rl *RectangularLight) IsDelta() bool {
	return false
}

func (rl *RectangularLight) Validate() error {
	if err := geometry.CheckDegenerate(rl.quad); err != nil {
		return fmt.Errorf("%w: rectangular light: %v", ErrInvalidLight, err)
	}
	if !validPower(rl.L) {
		return fmt.Errorf("%w: rectangular light radiance %v", ErrInvalidLight, rl.L)
	}
	return nil
}
