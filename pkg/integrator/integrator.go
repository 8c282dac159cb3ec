// Package integrator computes the radiance carried along camera rays.
package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/log"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

var logger = log.New("integrator")

// Type tags the closed set of integrators
type Type string

const (
	TypeWhitted Type = "whitted"
	TypePath    Type = "path"
	TypeNormals Type = "normals"
	TypeBVH     Type = "bvh"
)

// Types lists every integrator in display order
var Types = []Type{TypePath, TypeWhitted, TypeNormals, TypeBVH}

// ParseType accepts integrator names case-insensitively
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeWhitted, TypePath, TypeNormals, TypeBVH:
		return t, nil
	case "bvh-heatmap", "heatmap":
		return TypeBVH, nil
	}
	return "", fmt.Errorf("unknown integrator %q", s)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	Type() Type

	// RayColor returns the radiance arriving along ray and the number of rays traced.
	// The recorder may be nil.
	RayColor(ray core.Ray, s *scene.Scene, smp sampler.Sampler, rec *PathRecorder) (core.Vec3, int)
}

// Config contains the integrator parameters that come from render settings
type Config struct {
	MaxDepth           int     // Maximum number of scattering events
	RouletteMinBounces int     // Bounces before Russian roulette may terminate a path
	DisableRoulette    bool    // Trace every path to MaxDepth
	IndirectClamp      float64 // Maximum component of an indirect contribution, 0 disables
	HeatmapScale       float64 // Brightness per traversal step for the BVH heatmap
}

// DefaultConfig returns the configuration used by the CLI
func DefaultConfig() Config {
	return Config{
		MaxDepth:           8,
		RouletteMinBounces: 3,
		HeatmapScale:       1.0 / 64,
	}
}

// Validate checks the configuration before a render
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.RouletteMinBounces < 0 {
		return fmt.Errorf("roulette min bounces must not be negative, got %d", c.RouletteMinBounces)
	}
	if c.IndirectClamp < 0 {
		return fmt.Errorf("indirect clamp must not be negative, got %v", c.IndirectClamp)
	}
	if c.HeatmapScale < 0 {
		return fmt.Errorf("heatmap scale must not be negative, got %v", c.HeatmapScale)
	}
	return nil
}

// New creates an integrator of the given type
func New(t Type, config Config) (Integrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch t {
	case TypeWhitted:
		return NewWhitted(config), nil
	case TypePath:
		return NewPathTracing(config), nil
	case TypeNormals:
		return NewNormals(), nil
	case TypeBVH:
		return NewBVHHeatmap(config.HeatmapScale), nil
	}
	return nil, fmt.Errorf("unknown integrator %q", t)
}
