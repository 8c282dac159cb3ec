package sampler

import (
	"image"
	"math/rand/v2"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Uniform draws independent uniform values from a PCG stream reseeded per pixel sample
type Uniform struct {
	spp       int
	seed      uint64
	pcg       *rand.PCG
	rng       *rand.Rand
	dimension int
	exhausted bool
}

// NewUniform creates an independent uniform sampler
func NewUniform(samplesPerPixel int, seed uint64) *Uniform {
	pcg := rand.NewPCG(seed, 0)
	return &Uniform{spp: samplesPerPixel, seed: seed, pcg: pcg, rng: rand.New(pcg)}
}

func (u *Uniform) StartPixelSample(pixel image.Point, sampleIndex int) {
	x, y := pixelKey(pixel)
	u.pcg.Seed(hash(u.seed, x, y, uint64(sampleIndex)), u.seed)
	u.dimension = 0
}

func (u *Uniform) Get1D() float64 {
	if !u.consume(1) {
		return exhaustedValue
	}
	return u.next()
}

func (u *Uniform) Get2D() core.Vec2 {
	if !u.consume(2) {
		return core.NewVec2(exhaustedValue, exhaustedValue)
	}
	x := u.next()
	return core.NewVec2(x, u.next())
}

func (u *Uniform) SamplesPerPixel() int {
	return u.spp
}

func (u *Uniform) Exhausted() bool {
	return u.exhausted
}

func (u *Uniform) Clone() Sampler {
	return NewUniform(u.spp, u.seed)
}

func (u *Uniform) consume(n int) bool {
	if u.dimension+n > MaxDimensions {
		u.exhausted = true
		return false
	}
	u.dimension += n
	return true
}

func (u *Uniform) next() float64 {
	return min(u.rng.Float64(), core.OneMinusEpsilon)
}
