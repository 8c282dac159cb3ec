package renderer

import (
	"image"

	"github.com/df07/go-tiled-raytracer/pkg/integrator"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

// tileRenderer renders one tile at a time into a private buffer.
// Each worker owns one, so the sampler and buffers are never shared.
type tileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	sampler    sampler.Sampler
	film       *Film
	downsample int // 0 for full resolution

	buf    []PixelStats // New samples for the current tile, row-major
	counts []int        // Film sample counts at tile start, the next sample index per pixel
}

// tileResult summarizes the work done on one tile
type tileResult struct {
	pixels, samples, rays int
	completed             bool
}

func newTileRenderer(sc *scene.Scene, integ integrator.Integrator, smp sampler.Sampler, film *Film, settings Settings) *tileRenderer {
	tr := &tileRenderer{
		scene:      sc,
		integrator: integ,
		sampler:    smp,
		film:       film,
	}
	if settings.Interactive {
		tr.downsample = settings.DownsampleFactor
	}
	return tr
}

// render adds samples to every pixel of the tile. stale is checked between pixels;
// when it reports true the tile stops and the result is marked incomplete.
func (tr *tileRenderer) render(tile *Tile, samples int, stale func() bool) tileResult {
	bounds := tile.Bounds
	n := bounds.Dx() * bounds.Dy()
	if cap(tr.buf) < n {
		tr.buf = make([]PixelStats, n)
		tr.counts = make([]int, n)
	}
	tr.buf = tr.buf[:n]
	tr.counts = tr.counts[:n]
	clear(tr.buf)
	tr.film.sampleCounts(bounds, tr.counts)

	if tr.downsample > 1 {
		return tr.renderDownsampled(bounds, stale)
	}

	var res tileResult
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if stale() {
				return res
			}
			k := (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
			res.rays += tr.samplePixel(x, y, tr.counts[k], samples, &tr.buf[k])
			res.pixels++
			res.samples += samples
		}
	}
	res.completed = true
	return res
}

// renderDownsampled traces one sample at every downsample-th pixel and fills its block
func (tr *tileRenderer) renderDownsampled(bounds image.Rectangle, stale func() bool) tileResult {
	var res tileResult
	f := tr.downsample
	for y := bounds.Min.Y; y < bounds.Max.Y; y += f {
		for x := bounds.Min.X; x < bounds.Max.X; x += f {
			if stale() {
				return res
			}
			k := (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
			var ps PixelStats
			res.rays += tr.samplePixel(x, y, tr.counts[k], 1, &ps)
			res.samples++

			for by := y; by < min(y+f, bounds.Max.Y); by++ {
				for bx := x; bx < min(x+f, bounds.Max.X); bx++ {
					tr.buf[(by-bounds.Min.Y)*bounds.Dx()+(bx-bounds.Min.X)] = ps
					res.pixels++
				}
			}
		}
	}
	res.completed = true
	return res
}

// samplePixel traces samples starting at sample index first and returns the rays traced
func (tr *tileRenderer) samplePixel(x, y, first, samples int, ps *PixelStats) int {
	camera := tr.scene.Camera
	rays := 0
	for i := 0; i < samples; i++ {
		tr.sampler.StartPixelSample(image.Pt(x, y), first+i)
		jitter := tr.sampler.Get2D()
		ray := camera.GetRay(float64(x)+jitter.X, float64(y)+jitter.Y)
		c, n := tr.integrator.RayColor(ray, tr.scene, tr.sampler, nil)
		ps.AddSample(c)
		rays += n
	}
	return rays
}
