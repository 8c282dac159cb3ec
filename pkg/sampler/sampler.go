// Package sampler provides seekable sample streams: after StartPixelSample the values drawn are a
// pure function of (seed, pixel, sample index, dimension).
package sampler

import (
	"fmt"
	"image"
	"strings"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Type selects a sampling strategy
type Type string

const (
	TypeUniform    Type = "uniform"
	TypeStratified Type = "stratified"
)

// MaxDimensions is the number of dimensions a single sample may consume.
// Further draws return 0.5 and mark the sampler exhausted.
const MaxDimensions = 256

// MaxStratifiedDimensions is the number of leading dimensions the stratified sampler stratifies
const MaxStratifiedDimensions = 32

// exhaustedValue is returned for draws past MaxDimensions
const exhaustedValue = 0.5

// Sampler produces deterministic sample values for a pixel sample.
// Implementations are not safe for concurrent use; Clone one per worker.
type Sampler interface {
	// StartPixelSample positions the stream at dimension 0 of the given pixel sample
	StartPixelSample(pixel image.Point, sampleIndex int)
	Get1D() float64
	Get2D() core.Vec2
	SamplesPerPixel() int
	// Exhausted reports whether any draw ran past MaxDimensions since creation
	Exhausted() bool
	Clone() Sampler
}

// ParseType accepts type names case-insensitively
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeUniform, TypeStratified:
		return t, nil
	}
	return "", fmt.Errorf("unknown sampler type %q", s)
}

// New creates a sampler of the given type
func New(t Type, samplesPerPixel int, seed uint64) (Sampler, error) {
	if samplesPerPixel <= 0 {
		return nil, fmt.Errorf("samples per pixel must be positive, got %d", samplesPerPixel)
	}
	switch t {
	case TypeUniform:
		return NewUniform(samplesPerPixel, seed), nil
	case TypeStratified:
		return NewStratified(samplesPerPixel, seed), nil
	}
	return nil, fmt.Errorf("unknown sampler type %q", t)
}

// hash mixes values with the splitmix64 finalizer
func hash(values ...uint64) uint64 {
	h := uint64(0x6a09e667f3bcc909)
	for _, v := range values {
		h ^= v + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
		h = splitmix64(h)
	}
	return h
}

func splitmix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func pixelKey(p image.Point) (uint64, uint64) {
	return uint64(int64(p.X)), uint64(int64(p.Y))
}
