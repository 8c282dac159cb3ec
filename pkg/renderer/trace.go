package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/integrator"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

// PixelTrace is the full path of one pixel sample, for debug visualization
type PixelTrace struct {
	Pixel       image.Point
	SampleIndex int
	Color       core.Vec3
	Rays        int
	Segments    []integrator.Segment
}

// TracePixel renders a single sample of pixel (x, y) with the same sampler stream a
// render would use and records every ray traced
func TracePixel(sc *scene.Scene, settings Settings, x, y, sampleIndex int) (PixelTrace, error) {
	if err := settings.Validate(); err != nil {
		return PixelTrace{}, err
	}
	if sc == nil {
		return PixelTrace{}, errNilScene
	}
	if !image.Pt(x, y).In(image.Rect(0, 0, sc.Camera.Width(), sc.Camera.Height())) {
		return PixelTrace{}, fmt.Errorf("pixel (%d, %d) outside the %dx%d image", x, y, sc.Camera.Width(), sc.Camera.Height())
	}
	if sampleIndex < 0 {
		return PixelTrace{}, fmt.Errorf("sample index %d is negative", sampleIndex)
	}

	integ, err := integrator.New(settings.Integrator, settings.IntegratorConfig())
	if err != nil {
		return PixelTrace{}, err
	}
	smp, err := sampler.New(settings.Sampler, settings.SamplesPerPixel, settings.Seed)
	if err != nil {
		return PixelTrace{}, err
	}

	smp.StartPixelSample(image.Pt(x, y), sampleIndex)
	jitter := smp.Get2D()
	ray := sc.Camera.GetRay(float64(x)+jitter.X, float64(y)+jitter.Y)

	rec := &integrator.PathRecorder{}
	c, rays := integ.RayColor(ray, sc, smp, rec)
	return PixelTrace{
		Pixel:       image.Pt(x, y),
		SampleIndex: sampleIndex,
		Color:       c,
		Rays:        rays,
		Segments:    rec.Segments,
	}, nil
}
