package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial)

	tests := []struct {
		name      string
		origin    core.Vec3
		dir       core.Vec3
		shouldHit bool
		expectedT float64
		frontFace bool
	}{
		{"from outside", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), true, 4, true},
		{"from inside", core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), true, 1, false},
		{"miss", core.NewVec3(0, 2, 5), core.NewVec3(0, 0, -1), false, 0, false},
		{"behind", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			si, hit := sphere.Hit(core.NewRay(tt.origin, tt.dir), 0.001, math.Inf(1))
			if hit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, hit)
			}
			if !hit {
				return
			}
			if math.Abs(si.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, si.T)
			}
			if si.FrontFace != tt.frontFace {
				t.Errorf("Expected FrontFace=%v, got %v", tt.frontFace, si.FrontFace)
			}
			outward := si.Point.Normalize()
			if si.Normal.Subtract(outward).Length() > 1e-9 {
				t.Errorf("Expected outward normal %v, got %v", outward, si.Normal)
			}
		})
	}
}

func TestSphere_Degenerate(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := CheckDegenerate(NewSphere(core.Vec3{}, r, testMaterial)); err == nil {
			t.Errorf("Expected radius %v to be degenerate", r)
		}
	}
}
