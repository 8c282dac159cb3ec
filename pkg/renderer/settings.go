package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-tiled-raytracer/pkg/geometry"
	"github.com/df07/go-tiled-raytracer/pkg/integrator"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

// ErrInvalidSettings is wrapped by every Settings.Validate failure
var ErrInvalidSettings = errors.New("invalid render settings")

// Settings is the full set of options a render is launched with
type Settings struct {
	Width, Height   int
	SamplesPerPixel int // Samples added to each pixel by one launch
	Passes          int // Progressive passes the samples are spread over; ignored when Interactive
	MaxDepth        int

	// Split and MaxPrimsInNode reach the BVH only through SceneOptions when the scene is built.
	// Launch renders the scene it is given and never rebuilds its BVH.
	Split          geometry.SplitMethod
	MaxPrimsInNode int

	Sampler    sampler.Type
	Integrator integrator.Type

	TileSize         int
	Accumulate       bool // Add to the Film instead of replacing it
	Interactive      bool // One sample at every DownsampleFactor-th pixel, filling the block
	DownsampleFactor int
	NumWorkers       int // 0 uses the hardware parallelism
	Seed             uint64
	Focus            *image.Point // Pixel the tile spiral starts from, nil for the image center

	RouletteMinBounces int
	DisableRoulette    bool
	IndirectClamp      float64
	HeatmapScale       float64
}

// DefaultSettings returns sensible default values
func DefaultSettings() Settings {
	ic := integrator.DefaultConfig()
	return Settings{
		Width:              400,
		Height:             400,
		SamplesPerPixel:    64,
		Passes:             4,
		MaxDepth:           ic.MaxDepth,
		Split:              geometry.SplitSAH,
		MaxPrimsInNode:     geometry.DefaultMaxPrimsInNode,
		Sampler:            sampler.TypeStratified,
		Integrator:         integrator.TypePath,
		TileSize:           32,
		DownsampleFactor:   4,
		Seed:               1,
		RouletteMinBounces: ic.RouletteMinBounces,
		HeatmapScale:       ic.HeatmapScale,
	}
}

// Validate checks every option; the error wraps ErrInvalidSettings
func (s Settings) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, fmt.Sprintf(format, args...))
	}

	switch {
	case s.Width <= 0 || s.Height <= 0:
		return invalid("resolution %dx%d", s.Width, s.Height)
	case s.SamplesPerPixel <= 0:
		return invalid("samples per pixel %d", s.SamplesPerPixel)
	case s.Passes <= 0:
		return invalid("passes %d", s.Passes)
	case !s.Interactive && s.Passes > s.SamplesPerPixel:
		return invalid("%d passes cannot split %d samples per pixel", s.Passes, s.SamplesPerPixel)
	case s.MaxPrimsInNode <= 0:
		return invalid("max primitives per node %d", s.MaxPrimsInNode)
	case s.TileSize <= 0:
		return invalid("tile size %d", s.TileSize)
	case s.Interactive && s.DownsampleFactor <= 0:
		return invalid("downsample factor %d", s.DownsampleFactor)
	case s.NumWorkers < 0:
		return invalid("worker count %d", s.NumWorkers)
	}
	if s.Focus != nil && !s.Focus.In(image.Rect(0, 0, s.Width, s.Height)) {
		return invalid("focus %v outside the %dx%d film", *s.Focus, s.Width, s.Height)
	}
	if _, err := geometry.ParseSplitMethod(string(s.Split)); err != nil {
		return invalid("%v", err)
	}
	if _, err := sampler.ParseType(string(s.Sampler)); err != nil {
		return invalid("%v", err)
	}
	if _, err := integrator.ParseType(string(s.Integrator)); err != nil {
		return invalid("%v", err)
	}
	if err := s.IntegratorConfig().Validate(); err != nil {
		return invalid("%v", err)
	}
	return nil
}

// IntegratorConfig extracts the integrator parameters
func (s Settings) IntegratorConfig() integrator.Config {
	return integrator.Config{
		MaxDepth:           s.MaxDepth,
		RouletteMinBounces: s.RouletteMinBounces,
		DisableRoulette:    s.DisableRoulette,
		IndirectClamp:      s.IndirectClamp,
		HeatmapScale:       s.HeatmapScale,
	}
}

// SceneOptions returns the scene build options implied by the settings
func (s Settings) SceneOptions() scene.Options {
	opts := scene.DefaultOptions()
	opts.BVH = geometry.BuildOptions{Split: s.Split, MaxPrimsInNode: s.MaxPrimsInNode}
	return opts
}

// focus returns the spiral start pixel
func (s Settings) focus() image.Point {
	if s.Focus != nil {
		return *s.Focus
	}
	return image.Pt(s.Width/2, s.Height/2)
}

// samplesForPass returns the total samples per pixel after the given 1-based pass.
// The first pass is a single-sample preview when there is more than one pass.
func (s Settings) samplesForPass(pass int) int {
	if s.Interactive {
		return 1
	}
	if s.Passes == 1 || pass >= s.Passes {
		return s.SamplesPerPixel
	}
	if pass == 1 {
		return 1
	}
	perPass := (s.SamplesPerPixel - 1) / (s.Passes - 1)
	return 1 + (pass-1)*perPass
}

// passes returns the number of passes a launch runs
func (s Settings) passes() int {
	if s.Interactive {
		return 1
	}
	return s.Passes
}
