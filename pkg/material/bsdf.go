package material

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// BSDF evaluates a BxDF for world-space directions at one surface point
type BSDF struct {
	frame core.Frame
	bxdf  BxDF
}

// NewBSDF builds the shading frame from the interaction's shading normal
func NewBSDF(si *SurfaceInteraction, bxdf BxDF) *BSDF {
	return &BSDF{frame: core.NewFrame(si.ShadingNormal), bxdf: bxdf}
}

// Flags returns the lobe classification of the underlying BxDF
func (b *BSDF) Flags() BxDFFlags {
	return b.bxdf.Flags()
}

// F evaluates the scattering function for world directions
func (b *BSDF) F(woWorld, wiWorld core.Vec3) core.Vec3 {
	wo := b.frame.ToLocal(woWorld)
	wi := b.frame.ToLocal(wiWorld)
	if wo.Z == 0 {
		return core.Vec3{}
	}
	return b.bxdf.F(wo, wi)
}

// PDF returns the density of sampling wiWorld given woWorld
func (b *BSDF) PDF(woWorld, wiWorld core.Vec3) float64 {
	wo := b.frame.ToLocal(woWorld)
	wi := b.frame.ToLocal(wiWorld)
	if wo.Z == 0 {
		return 0
	}
	return b.bxdf.PDF(wo, wi)
}

// SampleF importance samples an incoming direction; the returned Wi is in world space
func (b *BSDF) SampleF(woWorld core.Vec3, u core.Vec2) (BSDFSample, bool) {
	wo := b.frame.ToLocal(woWorld)
	if wo.Z == 0 {
		return BSDFSample{}, false
	}
	s, ok := b.bxdf.SampleF(wo, u)
	if !ok || s.PDF == 0 || s.F.IsZero() || s.Wi.Z == 0 {
		return BSDFSample{}, false
	}
	s.Wi = b.frame.ToWorld(s.Wi)
	return s, true
}

// SpecularReflection returns the perfect mirror lobe, if the BxDF has one
func (b *BSDF) SpecularReflection(woWorld core.Vec3) (BSDFSample, bool) {
	lobes, ok := b.bxdf.(SpecularLobes)
	if !ok {
		return BSDFSample{}, false
	}
	return b.toWorld(lobes.Reflect(b.frame.ToLocal(woWorld)))
}

// SpecularTransmission returns the refracted lobe, if the BxDF has one
func (b *BSDF) SpecularTransmission(woWorld core.Vec3) (BSDFSample, bool) {
	lobes, ok := b.bxdf.(SpecularLobes)
	if !ok {
		return BSDFSample{}, false
	}
	return b.toWorld(lobes.Transmit(b.frame.ToLocal(woWorld)))
}

func (b *BSDF) toWorld(s BSDFSample, ok bool) (BSDFSample, bool) {
	if !ok || s.F.IsZero() {
		return BSDFSample{}, false
	}
	s.Wi = b.frame.ToWorld(s.Wi)
	return s, true
}
