package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

func TestQuad_Hit(t *testing.T) {
	// 1x1 quad in the XZ plane at y=0; (1,0,0) × (0,0,1) points down
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), testMaterial)

	tests := []struct {
		name      string
		origin    core.Vec3
		dir       core.Vec3
		shouldHit bool
	}{
		{"center from above", core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0), true},
		{"center from below", core.NewVec3(0.5, -1, 0.5), core.NewVec3(0, 1, 0), true},
		{"outside X bounds", core.NewVec3(1.5, 1, 0.5), core.NewVec3(0, -1, 0), false},
		{"outside Z bounds", core.NewVec3(0.5, 1, -0.5), core.NewVec3(0, -1, 0), false},
		{"parallel", core.NewVec3(0.5, 1, 0.5), core.NewVec3(1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			si, hit := quad.Hit(core.NewRay(tt.origin, tt.dir), 0.001, 1000)
			if hit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, hit)
			}
			if hit && math.Abs(si.T-1) > 1e-9 {
				t.Errorf("Expected t=1, got %f", si.T)
			}
		})
	}
}

func TestQuad_FrontFaceFollowsWinding(t *testing.T) {
	// (1,0,0) × (0,1,0) = +Z
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	front, _ := quad.Hit(core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1)), 0, 10)
	back, _ := quad.Hit(core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1)), 0, 10)
	if front == nil || back == nil {
		t.Fatal("Expected both rays to hit")
	}
	if !front.FrontFace || back.FrontFace {
		t.Errorf("Expected front=true back=false, got %v %v", front.FrontFace, back.FrontFace)
	}
}

func TestQuad_FlatBoundsArePadded(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), testMaterial)
	box := quad.BoundingBox()
	if box.Size().Y <= 0 {
		t.Errorf("Expected padded Y extent, got %v", box.Size())
	}
	if err := CheckDegenerate(quad); err != nil {
		t.Errorf("Expected valid quad, got %v", err)
	}
	if err := CheckDegenerate(NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), testMaterial)); err == nil {
		t.Error("Expected parallel edges to be degenerate")
	}
}

func TestBox_FacesPointOutward(t *testing.T) {
	box := NewAxisAlignedBox(core.Vec3{}, core.NewVec3(1, 1, 1), testMaterial)
	faces := box.Primitives()
	if len(faces) != 6 {
		t.Fatalf("Expected 6 faces, got %d", len(faces))
	}
	for _, f := range faces {
		q := f.(*Quad)
		toFace := q.Corner.Add(q.U.Multiply(0.5)).Add(q.V.Multiply(0.5))
		if q.Normal.Dot(toFace) <= 0 {
			t.Errorf("Face at %v has inward normal %v", toFace, q.Normal)
		}
	}

	si, hit := box.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0, 100)
	if !hit || math.Abs(si.T-4) > 1e-9 {
		t.Fatalf("Expected front face hit at t=4, got %v %v", hit, si)
	}
}
