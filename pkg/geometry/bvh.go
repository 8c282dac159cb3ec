package geometry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// SplitMethod selects how the BVH builder partitions primitives
type SplitMethod string

const (
	SplitSAH         SplitMethod = "sah"
	SplitMiddle      SplitMethod = "middle"
	SplitEqualCounts SplitMethod = "equal"
)

// ParseSplitMethod accepts the method names case-insensitively
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch m := SplitMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case SplitSAH, SplitMiddle, SplitEqualCounts:
		return m, nil
	case "equalcounts", "equal-counts":
		return SplitEqualCounts, nil
	}
	return "", fmt.Errorf("unknown split method %q", s)
}

// DefaultMaxPrimsInNode is the largest leaf the builder creates when splitting is still possible
const DefaultMaxPrimsInNode = 4

// sahBuckets is the number of bins evaluated by the surface area heuristic
const sahBuckets = 12

// BuildOptions configures BVH construction
type BuildOptions struct {
	Split          SplitMethod
	MaxPrimsInNode int
}

// DefaultBuildOptions uses SAH with small leaves
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Split: SplitSAH, MaxPrimsInNode: DefaultMaxPrimsInNode}
}

// ExcludedPrimitive is an input primitive left out of the tree
type ExcludedPrimitive struct {
	Index int   // Position in the input slice
	Err   error // Wraps ErrDegenerate
}

// BuildResult reports what happened during construction
type BuildResult struct {
	Excluded []ExcludedPrimitive
	Duration time.Duration
}

// linearNode is one entry of the flattened tree.
// Interior nodes: the first child follows immediately, secondChild indexes the other.
// Leaves: primitives[firstPrim : firstPrim+primCount].
type linearNode struct {
	bounds      core.AABB
	secondChild int
	firstPrim   int
	primCount   int
	axis        int
}

func (n *linearNode) isLeaf() bool {
	return n.primCount > 0
}

// BVH is a flattened bounding volume hierarchy. It is read-only after construction.
type BVH struct {
	nodes      []linearNode
	primitives []Shape // Ordered so each leaf covers a contiguous range
	stats      BVHStats
}

// BVHStats describes the structure of a built tree
type BVHStats struct {
	Nodes       int
	Leaves      int
	MaxDepth    int
	Primitives  int
	MaxLeafSize int
}

type bvhPrimitive struct {
	index    int
	bounds   core.AABB
	centroid core.Vec3
}

type buildNode struct {
	bounds    core.AABB
	children  [2]*buildNode
	axis      int
	firstPrim int
	primCount int
}

type bvhBuilder struct {
	shapes    []Shape
	opts      BuildOptions
	ordered   []Shape
	nodeCount int
}

// NewBVH builds a hierarchy over the given shapes. Degenerate shapes are excluded and listed in the result.
func NewBVH(shapes []Shape, opts BuildOptions) (*BVH, BuildResult) {
	start := time.Now()
	if opts.Split == "" {
		opts.Split = SplitSAH
	}
	if opts.MaxPrimsInNode <= 0 {
		opts.MaxPrimsInNode = DefaultMaxPrimsInNode
	}

	var result BuildResult
	prims := make([]bvhPrimitive, 0, len(shapes))
	for i, s := range shapes {
		if err := CheckDegenerate(s); err != nil {
			result.Excluded = append(result.Excluded, ExcludedPrimitive{Index: i, Err: err})
			continue
		}
		b := s.BoundingBox()
		prims = append(prims, bvhPrimitive{index: i, bounds: b, centroid: b.Center()})
	}

	bvh := &BVH{}
	if len(prims) > 0 {
		builder := &bvhBuilder{shapes: shapes, opts: opts, ordered: make([]Shape, 0, len(prims))}
		root := builder.build(prims)

		bvh.primitives = builder.ordered
		bvh.nodes = make([]linearNode, 0, builder.nodeCount)
		bvh.flatten(root, 0)
	}
	bvh.stats.Primitives = len(bvh.primitives)

	result.Duration = time.Since(start)
	return bvh, result
}

func (b *bvhBuilder) makeLeaf(prims []bvhPrimitive, bounds core.AABB) *buildNode {
	node := &buildNode{bounds: bounds, firstPrim: len(b.ordered), primCount: len(prims)}
	for _, p := range prims {
		b.ordered = append(b.ordered, b.shapes[p.index])
	}
	return node
}

func (b *bvhBuilder) build(prims []bvhPrimitive) *buildNode {
	b.nodeCount++

	bounds := core.EmptyAABB()
	centroidBounds := core.EmptyAABB()
	for _, p := range prims {
		bounds = bounds.Union(p.bounds)
		centroidBounds = centroidBounds.UnionPoint(p.centroid)
	}

	n := len(prims)
	if n <= b.opts.MaxPrimsInNode {
		return b.makeLeaf(prims, bounds)
	}

	// Coincident centroids cannot be separated by any strategy
	axis := centroidBounds.LongestAxis()
	if centroidBounds.Max.Axis(axis) == centroidBounds.Min.Axis(axis) {
		return b.makeLeaf(prims, bounds)
	}

	var mid int
	switch b.opts.Split {
	case SplitMiddle:
		mid = splitMiddle(prims, centroidBounds, axis)
		if mid == 0 || mid == n {
			mid = splitEqualCounts(prims, axis)
		}
	case SplitEqualCounts:
		mid = splitEqualCounts(prims, axis)
	default:
		var leaf bool
		mid, leaf = splitSAH(prims, bounds, centroidBounds, axis)
		if leaf {
			return b.makeLeaf(prims, bounds)
		}
		if mid == 0 || mid == n {
			mid = splitEqualCounts(prims, axis)
		}
	}

	node := &buildNode{bounds: bounds, axis: axis}
	node.children[0] = b.build(prims[:mid])
	node.children[1] = b.build(prims[mid:])
	return node
}

// splitEqualCounts orders primitives by centroid and splits at the median.
// The sort is stable so ties keep input order.
func splitEqualCounts(prims []bvhPrimitive, axis int) int {
	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].centroid.Axis(axis) < prims[j].centroid.Axis(axis)
	})
	return len(prims) / 2
}

// splitMiddle partitions around the centroid midpoint, keeping relative order on both sides
func splitMiddle(prims []bvhPrimitive, centroidBounds core.AABB, axis int) int {
	pivot := (centroidBounds.Min.Axis(axis) + centroidBounds.Max.Axis(axis)) / 2
	return stablePartition(prims, func(p bvhPrimitive) bool {
		return p.centroid.Axis(axis) < pivot
	})
}

// splitSAH bins centroids and picks the cheapest bucket boundary.
// Returns leaf=true when no split beats intersecting every primitive.
func splitSAH(prims []bvhPrimitive, bounds, centroidBounds core.AABB, axis int) (int, bool) {
	n := len(prims)

	bucketOf := func(p bvhPrimitive) int {
		b := int(sahBuckets * centroidBounds.Offset(p.centroid).Axis(axis))
		return core.Clamp(b, 0, sahBuckets-1)
	}

	type bucket struct {
		count  int
		bounds core.AABB
	}
	var buckets [sahBuckets]bucket
	for i := range buckets {
		buckets[i].bounds = core.EmptyAABB()
	}
	for _, p := range prims {
		b := bucketOf(p)
		buckets[b].count++
		buckets[b].bounds = buckets[b].bounds.Union(p.bounds)
	}

	// cost[i] splits after bucket i
	area := bounds.SurfaceArea()
	if area < 1e-10 {
		area = 1e-10
	}
	bestBucket, bestCost := -1, 0.0
	for i := 0; i < sahBuckets-1; i++ {
		b0, b1 := core.EmptyAABB(), core.EmptyAABB()
		count0, count1 := 0, 0
		for j := 0; j <= i; j++ {
			b0 = b0.Union(buckets[j].bounds)
			count0 += buckets[j].count
		}
		for j := i + 1; j < sahBuckets; j++ {
			b1 = b1.Union(buckets[j].bounds)
			count1 += buckets[j].count
		}
		cost := 1 + (float64(count0)*b0.SurfaceArea()+float64(count1)*b1.SurfaceArea())/area
		// Strict comparison keeps the lowest bucket on ties
		if bestBucket < 0 || cost < bestCost {
			bestBucket, bestCost = i, cost
		}
	}

	if bestCost >= float64(n) {
		return 0, true
	}
	return stablePartition(prims, func(p bvhPrimitive) bool {
		return bucketOf(p) <= bestBucket
	}), false
}

// stablePartition moves elements matching pred to the front without reordering either side
func stablePartition(prims []bvhPrimitive, pred func(bvhPrimitive) bool) int {
	rest := make([]bvhPrimitive, 0, len(prims))
	k := 0
	for _, p := range prims {
		if pred(p) {
			prims[k] = p
			k++
		} else {
			rest = append(rest, p)
		}
	}
	copy(prims[k:], rest)
	return k
}

// flatten lays the tree out depth-first and returns the next free index
func (bvh *BVH) flatten(node *buildNode, depth int) int {
	self := len(bvh.nodes)
	bvh.nodes = append(bvh.nodes, linearNode{bounds: node.bounds})
	bvh.stats.Nodes++
	if depth > bvh.stats.MaxDepth {
		bvh.stats.MaxDepth = depth
	}

	if node.primCount > 0 {
		bvh.nodes[self].firstPrim = node.firstPrim
		bvh.nodes[self].primCount = node.primCount
		bvh.stats.Leaves++
		if node.primCount > bvh.stats.MaxLeafSize {
			bvh.stats.MaxLeafSize = node.primCount
		}
		return self + 1
	}

	second := bvh.flatten(node.children[0], depth+1)
	next := bvh.flatten(node.children[1], depth+1)
	bvh.nodes[self].secondChild = second
	bvh.nodes[self].axis = node.axis
	return next
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	return bvh.stats
}

// BoundingBox returns the bounds of the whole tree, an empty box when there are no primitives
func (bvh *BVH) BoundingBox() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[0].bounds
}

// Primitives returns the primitives in leaf order
func (bvh *BVH) Primitives() []Shape {
	return bvh.primitives
}
