package geometry

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// TraversalStats counts the work done by one query
type TraversalStats struct {
	NodesVisited   int // Nodes whose bounds were tested
	PrimitiveTests int // Shape intersection tests in leaves
}

// traversalStackSize is the initial capacity for pending far children
const traversalStackSize = 64

type rayQuery struct {
	origin   core.Vec3
	invDir   core.Vec3
	dirIsNeg [3]bool
}

func newRayQuery(ray core.Ray) rayQuery {
	invDir := core.NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)
	return rayQuery{
		origin:   ray.Origin,
		invDir:   invDir,
		dirIsNeg: [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0},
	}
}

// Hit returns the closest intersection in [tMin, tMax]
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	si, ok, _ := bvh.HitWithStats(ray, tMin, tMax)
	return si, ok
}

// HitWithStats is Hit that also reports how many nodes and primitives were tested
func (bvh *BVH) HitWithStats(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool, TraversalStats) {
	var stats TraversalStats
	if len(bvh.nodes) == 0 {
		return nil, false, stats
	}

	q := newRayQuery(ray)
	var closest *material.SurfaceInteraction
	stack := make([]int, 0, traversalStackSize)
	current := 0

	for {
		node := &bvh.nodes[current]
		stats.NodesVisited++
		// Clipping against the best distance skips boxes that start behind the current hit
		if _, ok := node.bounds.IntersectP(q.origin, q.invDir, q.dirIsNeg, tMin, tMax); ok {
			if node.isLeaf() {
				for _, prim := range bvh.primitives[node.firstPrim : node.firstPrim+node.primCount] {
					stats.PrimitiveTests++
					if si, hit := prim.Hit(ray, tMin, tMax); hit {
						closest = si
						tMax = si.T
					}
				}
			} else {
				// Near child first
				if q.dirIsNeg[node.axis] {
					stack = append(stack, current+1)
					current = node.secondChild
				} else {
					stack = append(stack, node.secondChild)
					current++
				}
				continue
			}
		}
		if len(stack) == 0 {
			break
		}
		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}

	return closest, closest != nil, stats
}

// Occluded reports whether anything intersects the ray within [ray.TMin, ray.TMax].
// It stops at the first hit found.
func (bvh *BVH) Occluded(ray core.Ray) bool {
	if len(bvh.nodes) == 0 {
		return false
	}

	q := newRayQuery(ray)
	stack := make([]int, 0, traversalStackSize)
	current := 0

	for {
		node := &bvh.nodes[current]
		if _, ok := node.bounds.IntersectP(q.origin, q.invDir, q.dirIsNeg, ray.TMin, ray.TMax); ok {
			if node.isLeaf() {
				for _, prim := range bvh.primitives[node.firstPrim : node.firstPrim+node.primCount] {
					if _, hit := prim.Hit(ray, ray.TMin, ray.TMax); hit {
						return true
					}
				}
			} else {
				if q.dirIsNeg[node.axis] {
					stack = append(stack, current+1)
					current = node.secondChild
				} else {
					stack = append(stack, node.secondChild)
					current++
				}
				continue
			}
		}
		if len(stack) == 0 {
			return false
		}
		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}
}
