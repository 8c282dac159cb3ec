package geometry

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

var allSplitMethods = []SplitMethod{SplitSAH, SplitMiddle, SplitEqualCounts}

func randomVec3(rng *rand.Rand, scale float64) core.Vec3 {
	return core.NewVec3(
		(rng.Float64()*2-1)*scale,
		(rng.Float64()*2-1)*scale,
		(rng.Float64()*2-1)*scale,
	)
}

// randomScene builds a soup of small triangles and spheres
func randomScene(seed uint64, n int) []Shape {
	rng := rand.New(rand.NewPCG(seed, 1))
	shapes := make([]Shape, 0, n)
	for i := 0; i < n; i++ {
		center := randomVec3(rng, 10)
		if i%5 == 0 {
			shapes = append(shapes, NewSphere(center, 0.2+rng.Float64()*0.5, testMaterial))
			continue
		}
		shapes = append(shapes, NewTriangle(
			center.Add(randomVec3(rng, 1)),
			center.Add(randomVec3(rng, 1)),
			center.Add(randomVec3(rng, 1)),
			testMaterial))
	}
	return shapes
}

func randomRays(seed uint64, n int) []core.Ray {
	rng := rand.New(rand.NewPCG(seed, 2))
	rays := make([]core.Ray, n)
	for i := range rays {
		origin := randomVec3(rng, 15)
		target := randomVec3(rng, 8)
		rays[i] = core.NewRay(origin, target.Subtract(origin).Normalize())
	}
	return rays
}

func linearHit(shapes []Shape, ray core.Ray, tMin, tMax float64) (float64, bool) {
	closest := tMax
	hitAny := false
	for _, s := range shapes {
		if CheckDegenerate(s) != nil {
			continue
		}
		if si, ok := s.Hit(ray, tMin, closest); ok {
			closest = si.T
			hitAny = true
		}
	}
	return closest, hitAny
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	shapes := randomScene(7, 300)
	rays := randomRays(11, 500)

	for _, split := range allSplitMethods {
		t.Run(string(split), func(t *testing.T) {
			bvh, result := NewBVH(shapes, BuildOptions{Split: split, MaxPrimsInNode: 4})
			if len(result.Excluded) != 0 {
				t.Fatalf("Expected no excluded primitives, got %d", len(result.Excluded))
			}

			hits := 0
			for i, ray := range rays {
				wantT, wantHit := linearHit(shapes, ray, 1e-4, math.Inf(1))
				si, gotHit := bvh.Hit(ray, 1e-4, math.Inf(1))
				if gotHit != wantHit {
					t.Fatalf("ray %d: expected hit=%v, got %v", i, wantHit, gotHit)
				}
				if !gotHit {
					continue
				}
				hits++
				if math.Abs(si.T-wantT) > 1e-9 {
					t.Errorf("ray %d: expected t=%f, got %f", i, wantT, si.T)
				}
			}
			if hits == 0 {
				t.Fatal("Expected some rays to hit the scene")
			}
		})
	}
}

func TestBVH_OccludedIffHit(t *testing.T) {
	shapes := randomScene(3, 200)
	rays := randomRays(5, 400)

	for _, split := range allSplitMethods {
		t.Run(string(split), func(t *testing.T) {
			bvh, _ := NewBVH(shapes, BuildOptions{Split: split})
			for i, ray := range rays {
				// Bounded segments exercise the TMax cut
				ray.TMin, ray.TMax = 1e-4, 12
				_, hit := bvh.Hit(ray, ray.TMin, ray.TMax)
				if occluded := bvh.Occluded(ray); occluded != hit {
					t.Errorf("ray %d: Occluded=%v but Hit=%v", i, occluded, hit)
				}
			}
		})
	}
}

func TestBVH_EveryPrimitiveInExactlyOneLeaf(t *testing.T) {
	shapes := randomScene(13, 257)

	for _, split := range allSplitMethods {
		t.Run(string(split), func(t *testing.T) {
			bvh, _ := NewBVH(shapes, BuildOptions{Split: split, MaxPrimsInNode: 3})

			seen := make(map[Shape]int)
			covered := make([]bool, len(bvh.primitives))
			for _, node := range bvh.nodes {
				if !node.isLeaf() {
					continue
				}
				for i := node.firstPrim; i < node.firstPrim+node.primCount; i++ {
					if covered[i] {
						t.Fatalf("Primitive slot %d referenced by two leaves", i)
					}
					covered[i] = true
					seen[bvh.primitives[i]]++
					if !node.bounds.Contains(bvh.primitives[i].BoundingBox()) {
						t.Errorf("Leaf bounds do not contain primitive %d", i)
					}
				}
			}
			for _, s := range shapes {
				if seen[s] != 1 {
					t.Errorf("Expected primitive in exactly one leaf, found in %d", seen[s])
				}
			}

			// Interior bounds are the union of their children
			for i, node := range bvh.nodes {
				if node.isLeaf() {
					continue
				}
				union := bvh.nodes[i+1].bounds.Union(bvh.nodes[node.secondChild].bounds)
				if union != node.bounds {
					t.Errorf("Node %d bounds %v differ from children union %v", i, node.bounds, union)
				}
			}

			stats := bvh.Stats()
			if stats.Primitives != len(shapes) || stats.Nodes != len(bvh.nodes) || stats.Leaves == 0 {
				t.Errorf("Unexpected stats %+v", stats)
			}
		})
	}
}

func TestBVH_DeterministicBuild(t *testing.T) {
	shapes := randomScene(21, 150)
	for _, split := range allSplitMethods {
		t.Run(string(split), func(t *testing.T) {
			a, _ := NewBVH(shapes, BuildOptions{Split: split})
			b, _ := NewBVH(shapes, BuildOptions{Split: split})
			if len(a.nodes) != len(b.nodes) {
				t.Fatalf("Node counts differ: %d vs %d", len(a.nodes), len(b.nodes))
			}
			for i := range a.nodes {
				if a.nodes[i] != b.nodes[i] {
					t.Fatalf("Node %d differs", i)
				}
			}
			for i := range a.primitives {
				if a.primitives[i] != b.primitives[i] {
					t.Fatalf("Primitive order differs at %d", i)
				}
			}
		})
	}
}

func TestBVH_ExcludesDegeneratePrimitives(t *testing.T) {
	shapes := []Shape{
		NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial),
		NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), testMaterial),
		NewSphere(core.NewVec3(math.NaN(), 0, 0), 1, testMaterial),
		NewSphere(core.NewVec3(3, 0, 0), 1, testMaterial),
	}

	bvh, result := NewBVH(shapes, DefaultBuildOptions())
	if len(result.Excluded) != 2 {
		t.Fatalf("Expected 2 excluded primitives, got %d", len(result.Excluded))
	}
	for _, ex := range result.Excluded {
		if ex.Index != 1 && ex.Index != 2 {
			t.Errorf("Unexpected excluded index %d", ex.Index)
		}
		if !errors.Is(ex.Err, ErrDegenerate) {
			t.Errorf("Expected ErrDegenerate, got %v", ex.Err)
		}
	}
	if bvh.Stats().Primitives != 2 {
		t.Errorf("Expected 2 primitives in the tree, got %d", bvh.Stats().Primitives)
	}
}

func TestBVH_CoincidentCentroidsFormOneLeaf(t *testing.T) {
	var shapes []Shape
	for i := 0; i < 10; i++ {
		shapes = append(shapes, NewSphere(core.Vec3{}, float64(i+1), testMaterial))
	}
	for _, split := range allSplitMethods {
		bvh, _ := NewBVH(shapes, BuildOptions{Split: split, MaxPrimsInNode: 2})
		stats := bvh.Stats()
		if stats.Nodes != 1 || stats.MaxLeafSize != 10 {
			t.Errorf("%s: expected a single leaf of 10, got %+v", split, stats)
		}
		si, hit := bvh.Hit(core.NewRay(core.NewVec3(0, 0, 20), core.NewVec3(0, 0, -1)), 0, math.Inf(1))
		if !hit || math.Abs(si.T-10) > 1e-9 {
			t.Errorf("%s: expected outermost sphere at t=10, got %v", split, si)
		}
	}
}

func TestBVH_SmallNodesFormOneLeaf(t *testing.T) {
	shapes := []Shape{
		NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial),
		NewSphere(core.NewVec3(10, 0, 0), 1, testMaterial),
		NewSphere(core.NewVec3(20, 0, 0), 1, testMaterial),
	}
	for _, split := range allSplitMethods {
		bvh, _ := NewBVH(shapes, BuildOptions{Split: split, MaxPrimsInNode: 4})
		stats := bvh.Stats()
		if stats.Nodes != 1 || stats.Leaves != 1 || stats.MaxLeafSize != 3 {
			t.Errorf("%s: expected a single leaf of 3, got %+v", split, stats)
		}
	}
}

func TestBVH_SAHKeepsLeafWhenSplittingCostsMore(t *testing.T) {
	// Nearly identical spheres: every split leaves both children as large as the parent
	var shapes []Shape
	for i := 0; i < 4; i++ {
		shapes = append(shapes, NewSphere(core.NewVec3(float64(i)*0.01, 0, 0), 10, testMaterial))
	}

	sah, _ := NewBVH(shapes, BuildOptions{Split: SplitSAH, MaxPrimsInNode: 1})
	if stats := sah.Stats(); stats.Nodes != 1 || stats.MaxLeafSize != 4 {
		t.Errorf("Expected SAH to keep a single leaf of 4, got %+v", stats)
	}

	equal, _ := NewBVH(shapes, BuildOptions{Split: SplitEqualCounts, MaxPrimsInNode: 1})
	if stats := equal.Stats(); stats.Nodes != 7 || stats.MaxLeafSize != 1 {
		t.Errorf("Expected equal counts to split down to single primitives, got %+v", stats)
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh, _ := NewBVH(nil, DefaultBuildOptions())
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))
	if _, hit := bvh.Hit(ray, 0, math.Inf(1)); hit {
		t.Error("Expected no hit in an empty BVH")
	}
	if bvh.Occluded(ray) {
		t.Error("Expected no occlusion in an empty BVH")
	}
	if bvh.BoundingBox().IsValid() {
		t.Error("Expected an empty bounding box")
	}
}

func TestBVH_HitWithStats(t *testing.T) {
	shapes := randomScene(17, 200)
	bvh, _ := NewBVH(shapes, DefaultBuildOptions())
	var linearTests, bvhTests int
	for _, ray := range randomRays(19, 100) {
		_, _, stats := bvh.HitWithStats(ray, 1e-4, math.Inf(1))
		if stats.NodesVisited < 1 {
			t.Fatal("Expected the root to be visited")
		}
		bvhTests += stats.PrimitiveTests
		linearTests += len(shapes)
	}
	if bvhTests >= linearTests/4 {
		t.Errorf("Expected far fewer primitive tests than a linear scan, got %d vs %d", bvhTests, linearTests)
	}
}

func TestParseSplitMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    SplitMethod
		wantErr bool
	}{
		{"sah", SplitSAH, false},
		{"Middle", SplitMiddle, false},
		{"equal", SplitEqualCounts, false},
		{"EqualCounts", SplitEqualCounts, false},
		{"octree", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSplitMethod(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSplitMethod(%q) = %q, %v", tt.in, got, err)
		}
	}
}
