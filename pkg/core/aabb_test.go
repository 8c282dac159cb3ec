package core

import (
	"math"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"Through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"Pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"Parallel outside slab", NewRay(NewVec3(0, 2, -5), NewVec3(0, 0, 1)), false},
		{"Parallel on boundary", NewRay(NewVec3(0, 1, -5), NewVec3(0, 0, 1)), true},
		{"Diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1).Normalize()), true},
		{"Origin inside", NewRay(Vec3{}, NewVec3(1, 0, 0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0, math.Inf(1)); got != tt.expected {
				t.Errorf("Expected hit=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAABB_IntersectPEntryDistance(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))
	invDir := NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}

	tNear, hit := box.IntersectP(ray.Origin, invDir, dirIsNeg, 0, math.Inf(1))
	if !hit {
		t.Fatal("Expected ray to hit box")
	}
	if math.Abs(tNear-4) > 1e-9 {
		t.Errorf("Expected entry distance 4, got %f", tNear)
	}

	if _, hit := box.IntersectP(ray.Origin, invDir, dirIsNeg, 0, 3.5); hit {
		t.Error("Expected miss when tMax ends before the box")
	}
}

func TestAABB_UnionAndSurfaceArea(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(2, 0, 0), NewVec3(3, 1, 1))
	u := a.Union(b)

	if u.Min != NewVec3(0, 0, 0) || u.Max != NewVec3(3, 1, 1) {
		t.Errorf("Unexpected union %v", u)
	}
	if math.Abs(u.SurfaceArea()-14) > 1e-9 {
		t.Errorf("Expected surface area 14, got %f", u.SurfaceArea())
	}
	if u.LongestAxis() != 0 {
		t.Errorf("Expected longest axis 0, got %d", u.LongestAxis())
	}
	if EmptyAABB().SurfaceArea() != 0 {
		t.Error("Expected empty box to have zero surface area")
	}
	if got := EmptyAABB().Union(a); got != a {
		t.Errorf("Expected union with empty box to return %v, got %v", a, got)
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1),
		NewVec3(1, 2, 3).Normalize(),
		NewVec3(-0.3, 0.1, -0.9).Normalize(),
	}
	for _, n := range normals {
		f := NewFrame(n)
		if math.Abs(f.S.Dot(f.T)) > 1e-9 || math.Abs(f.S.Dot(f.N)) > 1e-9 || math.Abs(f.T.Dot(f.N)) > 1e-9 {
			t.Errorf("Frame for %v is not orthogonal: %+v", n, f)
		}
		v := NewVec3(0.2, -0.7, 0.4)
		back := f.ToWorld(f.ToLocal(v))
		if back.Subtract(v).Length() > 1e-9 {
			t.Errorf("Round trip for normal %v: expected %v, got %v", n, v, back)
		}
		if local := f.ToLocal(n); math.Abs(local.Z-1) > 1e-9 {
			t.Errorf("Expected normal to map to +Z, got %v", local)
		}
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			u := NewVec2((float64(i)+0.5)/16, (float64(j)+0.5)/16)
			w := SampleCosineHemisphere(u)
			if w.Z < 0 {
				t.Fatalf("Expected upper hemisphere direction, got %v", w)
			}
			if math.Abs(w.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %f", w.Length())
			}
		}
	}
}
