package material

import (
	"math"
	"testing"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// stratifiedSampledAlbedo estimates ∫ f(wo,wi)|cosθi| dωi with the lobe's own sampling on an n×n grid
func stratifiedSampledAlbedo(b BxDF, wo core.Vec3, n int) core.Vec3 {
	var sum core.Vec3
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u := core.NewVec2((float64(i)+0.5)/float64(n), (float64(j)+0.5)/float64(n))
			s, ok := b.SampleF(wo, u)
			if !ok || s.PDF == 0 {
				continue
			}
			sum = sum.Add(s.F.Multiply(core.AbsCosTheta(s.Wi) / s.PDF))
		}
	}
	return sum.Multiply(1 / float64(n*n))
}

func testLobes() map[string]BxDF {
	return map[string]BxDF{
		"lambertian": Lambertian{R: core.Splat(1)},
		"oren-nayar": NewOrenNayar(core.Splat(1), 25),
		"metal": MicrofacetReflection{
			R:            core.Splat(1),
			Distribution: NewTrowbridgeReitz(RoughnessToAlpha(0.4)),
			Fresnel:      ConductorFresnel{EtaI: core.Splat(1), EtaT: MetalSilver.Eta, K: MetalSilver.K},
		},
		"glossy": MicrofacetReflection{
			R:            core.Splat(1),
			Distribution: NewTrowbridgeReitz(0.5 * 0.5),
			Fresnel:      SchlickFresnel{R0: core.Splat(1)},
		},
	}
}

func TestBxDF_Reciprocity(t *testing.T) {
	dirs := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0.5, 0.2, 0.8).Normalize(),
		core.NewVec3(-0.7, 0.3, 0.3).Normalize(),
		core.NewVec3(0.1, -0.9, 0.2).Normalize(),
	}

	for name, lobe := range testLobes() {
		t.Run(name, func(t *testing.T) {
			for _, wo := range dirs {
				for _, wi := range dirs {
					a := lobe.F(wo, wi)
					b := lobe.F(wi, wo)
					if a.Subtract(b).Length() > 1e-9*math.Max(1, a.Length()) {
						t.Errorf("F(%v,%v)=%v but F(%v,%v)=%v", wo, wi, a, wi, wo, b)
					}
				}
			}
		})
	}
}

func TestBxDF_EnergyConservation(t *testing.T) {
	for name, lobe := range testLobes() {
		t.Run(name, func(t *testing.T) {
			for _, cosTheta := range []float64{0.9, 0.5, 0.2} {
				sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
				wo := core.NewVec3(sinTheta, 0, cosTheta)
				rho := stratifiedSampledAlbedo(lobe, wo, 256)
				if rho.MaxComponent() > 1+1e-3 {
					t.Errorf("cosθ=%.1f: albedo %v exceeds 1", cosTheta, rho)
				}
				if rho.X <= 0 {
					t.Errorf("cosθ=%.1f: expected positive albedo, got %v", cosTheta, rho)
				}
			}
		})
	}
}

func TestBSDF_WorldFrame(t *testing.T) {
	n := core.NewVec3(1, 0, 0)
	si := &SurfaceInteraction{Normal: n, ShadingNormal: n}
	bsdf := NewBSDF(si, Lambertian{R: core.Splat(0.5)})

	wo := core.NewVec3(1, 1, 0).Normalize()
	s, ok := bsdf.SampleF(wo, core.NewVec2(0.25, 0.75))
	if !ok {
		t.Fatal("Expected a sample")
	}
	if s.Wi.Dot(n) <= 0 {
		t.Errorf("Expected world-space direction in the normal's hemisphere, got %v", s.Wi)
	}
	if math.Abs(bsdf.PDF(wo, s.Wi)-s.PDF) > 1e-9 {
		t.Errorf("Expected PDF %f, got %f", s.PDF, bsdf.PDF(wo, s.Wi))
	}
	if f := bsdf.F(wo, n.Negate()); !f.IsZero() {
		t.Errorf("Expected no transmission for a diffuse lobe, got %v", f)
	}
}

func TestBSDF_SpecularLobes(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	si := &SurfaceInteraction{Normal: n, ShadingNormal: n}
	wo := core.NewVec3(1, 1, 0).Normalize()

	glass := NewGlass(core.Splat(1), core.Splat(1), 1.5).BSDF(si)
	r, ok := glass.SpecularReflection(wo)
	if !ok {
		t.Fatal("Expected a reflection lobe for glass")
	}
	expected := core.NewVec3(-1, 1, 0).Normalize()
	if r.Wi.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected mirror direction %v, got %v", expected, r.Wi)
	}
	tr, ok := glass.SpecularTransmission(wo)
	if !ok {
		t.Fatal("Expected a transmission lobe for glass")
	}
	if tr.Wi.Y >= 0 {
		t.Errorf("Expected refracted direction below the surface, got %v", tr.Wi)
	}

	// Weighted lobes add up to the full tint
	sum := r.F.Multiply(math.Abs(r.Wi.Y)).Add(tr.F.Multiply(math.Abs(tr.Wi.Y)))
	if math.Abs(sum.X-1) > 1e-9 {
		t.Errorf("Expected Fr + (1-Fr) = 1, got %f", sum.X)
	}

	matte := NewMatte(core.Splat(0.5), 0).BSDF(si)
	if _, ok := matte.SpecularReflection(wo); ok {
		t.Error("Expected no specular lobe for a matte surface")
	}
}
