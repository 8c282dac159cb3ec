package integrator

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/geometry"
	"github.com/df07/go-tiled-raytracer/pkg/lights"
	"github.com/df07/go-tiled-raytracer/pkg/material"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
	"gonum.org/v1/gonum/stat"
)

func newTestSampler(t *testing.T, spp int) sampler.Sampler {
	t.Helper()
	smp, err := sampler.New(sampler.TypeUniform, spp, 7)
	if err != nil {
		t.Fatalf("Failed to create sampler: %v", err)
	}
	return smp
}

func newCamera(t *testing.T, from, to core.Vec3, width, height int) *geometry.Camera {
	t.Helper()
	camera, err := geometry.NewCamera(geometry.CameraConfig{
		Center: from,
		LookAt: to,
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
		Width:  width,
		Height: height,
	})
	if err != nil {
		t.Fatalf("Failed to create camera: %v", err)
	}
	return camera
}

func TestWhitted_SphereScenario(t *testing.T) {
	tests := []struct {
		name      string
		light     core.Vec3
		expectLit bool
	}{
		// The light is above the apex, behind the visible equator
		{"light above", core.NewVec3(0, 5, 0), false},
		{"light above and in front", core.NewVec3(0, 5, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := scene.DefaultSphereSceneConfig(33, 33)
			config.LightPosition = tt.light
			s, err := scene.NewSphereScene(config, scene.DefaultOptions())
			if err != nil {
				t.Fatalf("Failed to create scene: %v", err)
			}

			// Odd resolution: the center of pixel (16,16) is the optical axis
			ray := s.Camera.GetRay(16.5, 16.5)
			si, ok := s.Intersect(ray)
			if !ok {
				t.Fatal("Expected the center ray to hit the sphere")
			}
			if math.Abs(si.Point.Z-1) > 0.02 {
				t.Errorf("Expected hit near the sphere's front pole, got %v", si.Point)
			}

			toLight := tt.light.Subtract(si.Point)
			distSq := toLight.LengthSquared()
			cos := math.Max(0, toLight.Normalize().Dot(si.ShadingNormal))
			expected := config.Albedo.MultiplyVec(config.LightIntensity).Multiply(cos / (math.Pi * distSq))
			if tt.expectLit && expected.IsZero() {
				t.Fatal("Expected a lit configuration")
			}
			if !tt.expectLit && !expected.IsZero() {
				t.Fatalf("Expected an unlit configuration, got %v", expected)
			}

			cfg := DefaultConfig()
			cfg.MaxDepth = 1
			w := NewWhitted(cfg)
			smp := newTestSampler(t, 1)
			smp.StartPixelSample(image.Pt(16, 16), 0)
			got, rays := w.RayColor(ray, s, smp, nil)

			if got.Subtract(expected).Abs().MaxComponent() > 1e-3 {
				t.Errorf("Expected radiance %v, got %v", expected, got)
			}
			minRays := 1
			if tt.expectLit {
				minRays = 2
			}
			if rays < minRays {
				t.Errorf("Expected at least %d rays, got %d", minRays, rays)
			}
		})
	}
}

// A point light at the center of a Lambertian sphere lights every interior point with
// cos = 1 and every cosine-sampled bounce scales throughput by exactly the albedo, so
// a path of D vertices carries rho/pi * E * (1 + rho + ... + rho^(D-1)).
func furnaceScene(t *testing.T, albedo, radius, intensity float64) *scene.Scene {
	t.Helper()
	camera := newCamera(t, core.Vec3{}, core.NewVec3(0, 0, -1), 9, 9)
	shell := geometry.NewSphere(core.Vec3{}, radius, material.NewMatte(core.Splat(albedo), 0))
	light := lights.NewPointLight(core.Vec3{}, core.Splat(intensity))
	s, err := scene.New(camera, []geometry.Shape{shell}, []lights.Light{light}, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	return s
}

func furnaceRadiance(albedo, irradiance float64, depth int) float64 {
	sum := 0.0
	for k := 0; k < depth; k++ {
		sum += math.Pow(albedo, float64(k))
	}
	return albedo / math.Pi * irradiance * sum
}

func TestPath_FurnaceWithoutRoulette(t *testing.T) {
	const albedo, radius, intensity = 0.5, 10.0, 100.0
	s := furnaceScene(t, albedo, radius, intensity)

	for _, depth := range []int{1, 2, 5} {
		cfg := DefaultConfig()
		cfg.MaxDepth = depth
		cfg.DisableRoulette = true
		pt := NewPathTracing(cfg)
		smp := newTestSampler(t, 16)

		expected := furnaceRadiance(albedo, intensity/(radius*radius), depth)
		for i := 0; i < 16; i++ {
			smp.StartPixelSample(image.Pt(4, 4), i)
			got, _ := pt.RayColor(s.Camera.GetRay(4.5, 4.5), s, smp, nil)
			if math.Abs(got.X-expected) > 1e-6 || math.Abs(got.Y-expected) > 1e-6 {
				t.Errorf("Depth %d sample %d: expected %v, got %v", depth, i, expected, got)
			}
		}
	}
}

func TestPath_RouletteIsUnbiased(t *testing.T) {
	const albedo, radius, intensity = 0.5, 10.0, 100.0
	const depth, n = 8, 4000
	s := furnaceScene(t, albedo, radius, intensity)

	cfg := DefaultConfig()
	cfg.MaxDepth = depth
	cfg.RouletteMinBounces = 0
	pt := NewPathTracing(cfg)
	smp := newTestSampler(t, n)

	values := make([]float64, n)
	terminatedEarly := false
	for i := range values {
		rec := &PathRecorder{}
		smp.StartPixelSample(image.Pt(4, 4), i)
		c, _ := pt.RayColor(s.Camera.GetRay(4.5, 4.5), s, smp, rec)
		values[i] = c.Y
		if countType(rec, SegmentDiffuse)+1 < depth {
			terminatedEarly = true
		}
	}
	if !terminatedEarly {
		t.Fatal("Expected roulette to terminate some paths early")
	}

	mean, variance := stat.MeanVariance(values, nil)
	expected := furnaceRadiance(albedo, intensity/(radius*radius), depth)
	stdErr := math.Sqrt(variance / n)
	if math.Abs(mean-expected) > 4*stdErr {
		t.Errorf("Expected mean %v, got %v (standard error %v)", expected, mean, stdErr)
	}
}

func TestRussianRoulette(t *testing.T) {
	tests := []struct {
		name     string
		beta     core.Vec3
		u        float64
		survive  bool
		expected core.Vec3
	}{
		{"bright path always survives", core.NewVec3(2, 2, 2), 0.999, true, core.NewVec3(2, 2, 2)},
		{"survivor is reweighted", core.NewVec3(0.25, 0.25, 0.25), 0.1, true, core.NewVec3(1, 1, 1)},
		{"terminated above q", core.NewVec3(0.25, 0.25, 0.25), 0.3, false, core.Vec3{}},
		{"zero throughput underflows", core.Vec3{}, 0, false, core.Vec3{}},
		{"NaN throughput underflows", core.NewVec3(math.NaN(), 0, 0), 0, false, core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beta, ok := russianRoulette(tt.beta, tt.u)
			if ok != tt.survive {
				t.Fatalf("Expected survive=%v, got %v", tt.survive, ok)
			}
			if beta.Subtract(tt.expected).Abs().MaxComponent() > 1e-12 {
				t.Errorf("Expected throughput %v, got %v", tt.expected, beta)
			}
		})
	}
}

func TestIntegrators_EmptySceneReturnsBackground(t *testing.T) {
	opts := scene.DefaultOptions()
	opts.Background = core.NewVec3(0.1, 0.2, 0.3)
	s, err := scene.NewEmptyScene(8, 8, opts)
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}

	for _, typ := range []Type{TypePath, TypeWhitted, TypeNormals} {
		t.Run(string(typ), func(t *testing.T) {
			integ, err := New(typ, DefaultConfig())
			if err != nil {
				t.Fatalf("Failed to create integrator: %v", err)
			}
			smp := newTestSampler(t, 1)
			smp.StartPixelSample(image.Pt(3, 3), 0)
			got, rays := integ.RayColor(s.Camera.GetRay(3.5, 3.5), s, smp, nil)
			if got != opts.Background {
				t.Errorf("Expected background %v, got %v", opts.Background, got)
			}
			if rays != 1 {
				t.Errorf("Expected 1 ray, got %d", rays)
			}
		})
	}
}

func TestPath_DirectEmission(t *testing.T) {
	radiance := core.NewVec3(4, 3, 2)
	tests := []struct {
		name     string
		u, v     core.Vec3
		expected core.Vec3
	}{
		{"front face", core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), radiance},
		{"back face", core.NewVec3(0, 2, 0), core.NewVec3(2, 0, 0), core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light := lights.NewRectangularLight(core.NewVec3(-1, -1, 0), tt.u, tt.v, radiance)
			camera := newCamera(t, core.NewVec3(0, 0, 5), core.Vec3{}, 9, 9)
			s, err := scene.New(camera, nil, []lights.Light{light}, scene.DefaultOptions())
			if err != nil {
				t.Fatalf("Failed to create scene: %v", err)
			}
			smp := newTestSampler(t, 1)
			smp.StartPixelSample(image.Pt(4, 4), 0)
			got, _ := NewPathTracing(DefaultConfig()).RayColor(s.Camera.GetRay(4.5, 4.5), s, smp, nil)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWhitted_FollowsBothGlassLobes(t *testing.T) {
	camera := newCamera(t, core.NewVec3(0, 0, 5), core.Vec3{}, 9, 9)
	glass := geometry.NewSphere(core.Vec3{}, 1, material.NewGlass(core.Splat(1), core.Splat(1), 1.5))
	light := lights.NewPointLight(core.NewVec3(0, 5, 5), core.Splat(10))
	s, err := scene.New(camera, []geometry.Shape{glass}, []lights.Light{light}, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}

	cfg := DefaultConfig()
	cfg.MaxDepth = 3
	smp := newTestSampler(t, 1)
	smp.StartPixelSample(image.Pt(4, 4), 0)
	rec := &PathRecorder{}
	_, rays := NewWhitted(cfg).RayColor(s.Camera.GetRay(4.5, 4.5), s, smp, rec)

	if rays != rec.Len() {
		t.Errorf("Expected ray count %d to match recorded segments %d", rays, rec.Len())
	}
	if rec.Segments[0].Type != SegmentCamera {
		t.Errorf("Expected first segment to be the camera ray, got %v", rec.Segments[0].Type)
	}
	if countType(rec, SegmentReflection) == 0 || countType(rec, SegmentTransmission) == 0 {
		t.Errorf("Expected reflection and transmission segments, got %+v", rec.Segments)
	}
	for _, seg := range rec.Segments {
		if seg.Depth >= cfg.MaxDepth {
			t.Errorf("Expected depth below %d, got segment %+v", cfg.MaxDepth, seg)
		}
	}
}

func TestPathRecorder_NilIsSafe(t *testing.T) {
	var rec *PathRecorder
	rec.recordHit(SegmentCamera, 0, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), nil, false)
	rec.recordShadow(0, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), core.Vec3{}, true)
	rec.Reset()
	if rec.Len() != 0 {
		t.Errorf("Expected nil recorder to be empty, got %d", rec.Len())
	}
}

func TestBVHHeatmap_CountsTraversal(t *testing.T) {
	config := scene.DefaultSphereSceneConfig(9, 9)
	s, err := scene.NewSphereScene(config, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	heat := NewBVHHeatmap(1)
	smp := newTestSampler(t, 1)
	hitColor, _ := heat.RayColor(s.Camera.GetRay(4.5, 4.5), s, smp, nil)
	missColor, _ := heat.RayColor(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)), s, smp, nil)
	if hitColor.X <= 0 {
		t.Errorf("Expected traversal work for a hit, got %v", hitColor)
	}
	if missColor.X >= hitColor.X {
		t.Errorf("Expected a ray pointing away to cost less than a hit, got %v vs %v", missColor, hitColor)
	}
}

func TestNormals_MapsToUnitRange(t *testing.T) {
	camera := newCamera(t, core.NewVec3(0, 0, 5), core.Vec3{}, 9, 9)
	sphere := geometry.NewSphere(core.Vec3{}, 1, material.NewMatte(core.Splat(0.5), 0))
	s, err := scene.New(camera, []geometry.Shape{sphere}, nil, scene.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	got, _ := NewNormals().RayColor(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), s, newTestSampler(t, 1), nil)
	expected := core.NewVec3(0.5, 0.5, 1)
	if got.Subtract(expected).Abs().MaxComponent() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestClampContribution(t *testing.T) {
	c := core.NewVec3(4, 2, 1)
	if got := clampContribution(c, 0); got != c {
		t.Errorf("Expected no clamping with limit 0, got %v", got)
	}
	if got := clampContribution(c, 2); got != core.NewVec3(2, 1, 0.5) {
		t.Errorf("Expected hue-preserving clamp, got %v", got)
	}
}

func TestParseTypeAndNew(t *testing.T) {
	for _, typ := range Types {
		parsed, err := ParseType(string(typ))
		if err != nil || parsed != typ {
			t.Errorf("Expected %v to parse, got %v %v", typ, parsed, err)
		}
		integ, err := New(typ, DefaultConfig())
		if err != nil {
			t.Fatalf("Failed to create %v: %v", typ, err)
		}
		if integ.Type() != typ {
			t.Errorf("Expected type %v, got %v", typ, integ.Type())
		}
	}
	if _, err := ParseType("bdpt"); err == nil {
		t.Error("Expected error for an unknown integrator")
	}
	bad := DefaultConfig()
	bad.MaxDepth = 0
	if _, err := New(TypePath, bad); err == nil {
		t.Error("Expected error for max depth 0")
	}
}

func countType(rec *PathRecorder, typ SegmentType) int {
	n := 0
	for _, seg := range rec.Segments {
		if seg.Type == typ {
			n++
		}
	}
	return n
}
