package material

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// MaterialType tags the closed set of surface materials
type MaterialType string

const (
	MaterialTypeMatte  MaterialType = "matte"
	MaterialTypeGlass  MaterialType = "glass"
	MaterialTypeMetal  MaterialType = "metal"
	MaterialTypeGlossy MaterialType = "glossy"
)

// Material produces the scattering function at a surface point
type Material interface {
	Type() MaterialType
	BSDF(si *SurfaceInteraction) *BSDF
}

// Emitter is implemented by area lights attached to primitives
type Emitter interface {
	// Radiance returns radiance leaving a surface with outward normal n in direction w
	Radiance(n, w core.Vec3) core.Vec3
}

// SurfaceInteraction contains information about a ray-object intersection
type SurfaceInteraction struct {
	Point         core.Vec3 // Point of intersection
	Normal        core.Vec3 // Outward geometric normal
	ShadingNormal core.Vec3 // Outward shading normal, same hemisphere as Normal
	UV            core.Vec2 // Surface parameterization
	Wo            core.Vec3 // Direction back along the incoming ray
	T             float64   // Parameter t along the ray
	FrontFace     bool      // Whether the ray hit the outward side
	Material      Material  // Material of the hit object, nil for pure emitters
	Emitter       Emitter   // Area light of the hit object, if any
}

// SetNormals stores outward normals and determines front/back face
func (si *SurfaceInteraction) SetNormals(ray core.Ray, outward, shading core.Vec3) {
	si.FrontFace = ray.Direction.Dot(outward) < 0
	si.Normal = outward
	if shading.Dot(outward) < 0 {
		shading = shading.Negate()
	}
	si.ShadingNormal = shading
	si.Wo = ray.Direction.Negate().Normalize()
}

// Le returns radiance emitted from the hit point toward w
func (si *SurfaceInteraction) Le(w core.Vec3) core.Vec3 {
	if si.Emitter == nil {
		return core.Vec3{}
	}
	return si.Emitter.Radiance(si.Normal, w)
}

// offsetOrigin moves the hit point off the surface on the side w points to
func (si *SurfaceInteraction) offsetOrigin(w core.Vec3) core.Vec3 {
	scale := 1 + math.Max(math.Abs(si.Point.X), math.Max(math.Abs(si.Point.Y), math.Abs(si.Point.Z)))
	offset := si.Normal.Multiply(rayOffsetEpsilon * scale)
	if w.Dot(si.Normal) < 0 {
		offset = offset.Negate()
	}
	return si.Point.Add(offset)
}

const rayOffsetEpsilon = 1e-6

// SpawnRay leaves the surface in direction d
func (si *SurfaceInteraction) SpawnRay(d core.Vec3) core.Ray {
	return core.NewRay(si.offsetOrigin(d), d)
}

// SpawnRayTo leaves the surface toward p, stopping just short of it
func (si *SurfaceInteraction) SpawnRayTo(p core.Vec3) core.Ray {
	origin := si.offsetOrigin(p.Subtract(si.Point))
	return core.NewRaySegment(origin, p.Subtract(origin), 0, 1-core.ShadowEpsilon)
}

// BxDFFlags classify a lobe or a sampled direction
type BxDFFlags uint8

const (
	BxDFReflection BxDFFlags = 1 << iota
	BxDFTransmission
	BxDFDiffuse
	BxDFGlossy
	BxDFSpecular
)

// IsSpecular reports whether the flags describe a delta distribution
func (f BxDFFlags) IsSpecular() bool {
	return f&BxDFSpecular != 0
}

// IsNonSpecular reports whether any diffuse or glossy component is present
func (f BxDFFlags) IsNonSpecular() bool {
	return f&(BxDFDiffuse|BxDFGlossy) != 0
}

// BSDFSample is a sampled incoming direction with its value and density
type BSDFSample struct {
	Wi    core.Vec3 // Incoming direction (local for BxDF, world for BSDF)
	F     core.Vec3 // Scattering function value
	PDF   float64   // Solid angle density, the lobe choice probability for specular samples
	Flags BxDFFlags // Kind of lobe that produced the sample
}

// BxDF is a scattering function in the local shading frame, normal along +Z.
// wo points toward the viewer, wi toward the light.
type BxDF interface {
	F(wo, wi core.Vec3) core.Vec3
	SampleF(wo core.Vec3, u core.Vec2) (BSDFSample, bool)
	PDF(wo, wi core.Vec3) float64
	Flags() BxDFFlags
}

// SpecularLobes is implemented by BxDFs that can enumerate their delta lobes.
// Whitted tracing follows each lobe instead of picking one stochastically.
type SpecularLobes interface {
	Reflect(wo core.Vec3) (BSDFSample, bool)
	Transmit(wo core.Vec3) (BSDFSample, bool)
}
