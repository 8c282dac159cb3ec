package integrator

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

// WhittedIntegrator computes direct lighting from every light and follows perfect
// specular reflection and transmission explicitly, up to MaxDepth scattering events.
type WhittedIntegrator struct {
	config Config
}

// NewWhitted creates a new Whitted integrator
func NewWhitted(config Config) *WhittedIntegrator {
	return &WhittedIntegrator{config: config}
}

func (w *WhittedIntegrator) Type() Type {
	return TypeWhitted
}

func (w *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene, smp sampler.Sampler, rec *PathRecorder) (core.Vec3, int) {
	return w.li(ray, s, smp, rec, 0, SegmentCamera)
}

// li recurses once per specular lobe; depth bounds the recursion
func (w *WhittedIntegrator) li(ray core.Ray, s *scene.Scene, smp sampler.Sampler, rec *PathRecorder, depth int, kind SegmentType) (core.Vec3, int) {
	rays := 1
	si, hit := s.Intersect(ray)
	rec.recordHit(kind, depth, ray, si, hit)
	if !hit {
		return s.Background, rays
	}

	L := si.Le(si.Wo)
	if si.Material == nil {
		return L, rays
	}
	bsdf := si.Material.BSDF(si)

	direct, n := directLighting(s, si, bsdf, smp, rec, depth)
	L = L.Add(direct)
	rays += n

	if depth+1 >= w.config.MaxDepth {
		return L, rays
	}

	if r, ok := bsdf.SpecularReflection(si.Wo); ok {
		c, n := w.specular(r, si, s, smp, rec, depth, SegmentReflection)
		L = L.Add(c)
		rays += n
	}
	if t, ok := bsdf.SpecularTransmission(si.Wo); ok {
		c, n := w.specular(t, si, s, smp, rec, depth, SegmentTransmission)
		L = L.Add(c)
		rays += n
	}
	return L, rays
}

func (w *WhittedIntegrator) specular(bs material.BSDFSample, si *material.SurfaceInteraction, s *scene.Scene, smp sampler.Sampler, rec *PathRecorder, depth int, kind SegmentType) (core.Vec3, int) {
	incoming, rays := w.li(si.SpawnRay(bs.Wi), s, smp, rec, depth+1, kind)
	weight := bs.F.Multiply(bs.Wi.AbsDot(si.ShadingNormal) / bs.PDF)
	return weight.MultiplyVec(incoming), rays
}
