package integrator

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

// NormalsIntegrator shows the shading normal of the first hit mapped to [0,1]
type NormalsIntegrator struct{}

func NewNormals() *NormalsIntegrator {
	return &NormalsIntegrator{}
}

func (n *NormalsIntegrator) Type() Type {
	return TypeNormals
}

func (n *NormalsIntegrator) RayColor(ray core.Ray, s *scene.Scene, smp sampler.Sampler, rec *PathRecorder) (core.Vec3, int) {
	si, hit := s.Intersect(ray)
	rec.recordHit(SegmentCamera, 0, ray, si, hit)
	if !hit {
		return s.Background, 1
	}
	return si.ShadingNormal.Multiply(0.5).Add(core.Splat(0.5)), 1
}

// BVHHeatmapIntegrator shows the traversal cost of the camera ray: visited nodes plus
// primitive tests, times Scale
type BVHHeatmapIntegrator struct {
	Scale float64
}

func NewBVHHeatmap(scale float64) *BVHHeatmapIntegrator {
	return &BVHHeatmapIntegrator{Scale: scale}
}

func (b *BVHHeatmapIntegrator) Type() Type {
	return TypeBVH
}

func (b *BVHHeatmapIntegrator) RayColor(ray core.Ray, s *scene.Scene, smp sampler.Sampler, rec *PathRecorder) (core.Vec3, int) {
	si, hit, stats := s.IntersectWithStats(ray)
	rec.recordHit(SegmentCamera, 0, ray, si, hit)
	return core.Splat(float64(stats.NodesVisited+stats.PrimitiveTests) * b.Scale), 1
}
