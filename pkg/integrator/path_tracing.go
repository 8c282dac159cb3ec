package integrator

import (
	"math"
	"sync"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with next event estimation
type PathTracingIntegrator struct {
	config       Config
	nonFiniteLog sync.Once
}

// NewPathTracing creates a new path tracing integrator
func NewPathTracing(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config}
}

func (pt *PathTracingIntegrator) Type() Type {
	return TypePath
}

// RayColor traces one path. Emission is only added where direct lighting could not have
// accounted for it: on the camera ray and after specular bounces.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, smp sampler.Sampler, rec *PathRecorder) (core.Vec3, int) {
	var L core.Vec3
	beta := core.NewVec3(1, 1, 1)
	specularBounce := false
	kind := SegmentCamera
	rays := 0

	for depth := 0; ; depth++ {
		si, hit := s.Intersect(ray)
		rays++
		rec.recordHit(kind, depth, ray, si, hit)
		if !hit {
			L = L.Add(pt.indirect(beta.MultiplyVec(s.Background), depth))
			break
		}

		if depth == 0 || specularBounce {
			L = L.Add(pt.indirect(beta.MultiplyVec(si.Le(si.Wo)), depth))
		}
		if si.Material == nil {
			break
		}
		bsdf := si.Material.BSDF(si)

		if bsdf.Flags().IsNonSpecular() {
			direct, n := directLighting(s, si, bsdf, smp, rec, depth)
			rays += n
			L = L.Add(pt.indirect(beta.MultiplyVec(direct), depth))
		}

		if depth+1 >= pt.config.MaxDepth {
			break
		}

		bs, ok := bsdf.SampleF(si.Wo, smp.Get2D())
		if !ok {
			break
		}
		beta = beta.MultiplyVec(bs.F).Multiply(bs.Wi.AbsDot(si.ShadingNormal) / bs.PDF)
		specularBounce = bs.Flags.IsSpecular()
		kind = segmentFor(bs.Flags)
		ray = si.SpawnRay(bs.Wi)

		if !pt.config.DisableRoulette && depth+1 >= pt.config.RouletteMinBounces {
			var survive bool
			beta, survive = russianRoulette(beta, smp.Get1D())
			if !survive {
				break
			}
		}
	}

	if !L.IsFinite() {
		pt.nonFiniteLog.Do(func() {
			logger.Warningf("Discarding non-finite path radiance %v", L)
		})
		return core.Vec3{}, rays
	}
	return L, rays
}

// indirect applies the configured clamp to contributions after the first bounce
func (pt *PathTracingIntegrator) indirect(c core.Vec3, depth int) core.Vec3 {
	if depth == 0 {
		return c
	}
	return clampContribution(c, pt.config.IndirectClamp)
}

// russianRoulette survives with probability q = min(1, luminance(beta)) and divides the
// throughput by q. A zero or NaN q always terminates.
func russianRoulette(beta core.Vec3, u float64) (core.Vec3, bool) {
	q := math.Min(1, beta.Luminance())
	if !(q > 0) {
		return core.Vec3{}, false
	}
	if u >= q {
		return core.Vec3{}, false
	}
	return beta.Multiply(1 / q), true
}
