package integrator

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

// directLighting sums one sample from every light at si with an any-hit shadow ray each.
// A 2D sample is drawn per light whether or not it contributes, so dimension use does not
// depend on visibility. Returns the radiance and the number of shadow rays traced.
func directLighting(s *scene.Scene, si *material.SurfaceInteraction, bsdf *material.BSDF, smp sampler.Sampler, rec *PathRecorder, depth int) (core.Vec3, int) {
	var total core.Vec3
	rays := 0
	for _, light := range s.Lights {
		u := smp.Get2D()
		ls := light.SampleLi(si.Point, u)
		if ls.PDF == 0 || ls.Li.IsZero() {
			continue
		}
		f := bsdf.F(si.Wo, ls.Direction)
		if f.IsZero() {
			continue
		}
		cos := ls.Direction.AbsDot(si.ShadingNormal)
		if cos == 0 {
			continue
		}

		shadow := si.SpawnRayTo(ls.Point)
		occluded := s.Occluded(shadow)
		rays++
		rec.recordShadow(depth, shadow, ls.Point, occluded)
		if occluded {
			continue
		}
		total = total.Add(f.MultiplyVec(ls.Li).Multiply(cos / ls.PDF))
	}
	return total, rays
}

// clampContribution scales c so no component exceeds limit; limit 0 disables clamping
func clampContribution(c core.Vec3, limit float64) core.Vec3 {
	if limit <= 0 {
		return c
	}
	if m := c.MaxComponent(); m > limit {
		return c.Multiply(limit / m)
	}
	return c
}
