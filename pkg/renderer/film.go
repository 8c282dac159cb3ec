package renderer

import (
	"image"
	"image/color"
	"sync"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// PixelStats tracks the accumulated samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // Sum of sample radiance
	SampleCount int       // Number of samples taken
	Generation  uint64    // Render generation that last wrote the pixel
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(c core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(c)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Film holds per-pixel accumulated radiance and sample counts.
// Workers render into private tile buffers and commit them under a short lock.
type Film struct {
	width, height int
	mu            sync.RWMutex
	pixels        []PixelStats
}

// NewFilm creates an empty film
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		pixels: make([]PixelStats, width*height),
	}
}

func (f *Film) Width() int  { return f.width }
func (f *Film) Height() int { return f.height }

// Bounds returns the pixel rectangle covered by the film
func (f *Film) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// Pixel returns a copy of the statistics at (x, y)
func (f *Film) Pixel(x, y int) PixelStats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pixels[y*f.width+x]
}

// Color returns the mean radiance at (x, y)
func (f *Film) Color(x, y int) core.Vec3 {
	ps := f.Pixel(x, y)
	return ps.GetColor()
}

// SampleCount returns the number of samples accumulated at (x, y)
func (f *Film) SampleCount(x, y int) int {
	return f.Pixel(x, y).SampleCount
}

// Generation returns the render generation that last wrote (x, y)
func (f *Film) Generation(x, y int) uint64 {
	return f.Pixel(x, y).Generation
}

// Reset clears every pixel and tags it with the given generation
func (f *Film) Reset(generation uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pixels {
		f.pixels[i] = PixelStats{Generation: generation}
	}
}

// sampleCounts copies the sample counts inside bounds, row-major
func (f *Film) sampleCounts(bounds image.Rectangle, dst []int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst[i] = f.pixels[y*f.width+x].SampleCount
			i++
		}
	}
}

// commit adds a tile buffer to the film. Pixels with no samples in the buffer are left alone.
func (f *Film) commit(bounds image.Rectangle, buf []PixelStats, generation uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			src := buf[i]
			i++
			if src.SampleCount == 0 {
				continue
			}
			dst := &f.pixels[y*f.width+x]
			dst.ColorAccum = dst.ColorAccum.Add(src.ColorAccum)
			dst.SampleCount += src.SampleCount
			dst.Generation = max(dst.Generation, generation)
		}
	}
}

// Image converts the film to 8-bit sRGB-ish with gamma 2.2; pixels without samples are black
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	f.mu.RLock()
	defer f.mu.RUnlock()
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.pixels[y*f.width+x].GetColor()))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1).GammaCorrect(2.2)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}
