package scene

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/geometry"
	"github.com/df07/go-tiled-raytracer/pkg/lights"
	"github.com/df07/go-tiled-raytracer/pkg/log"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

var logger = log.New("scene")

var (
	errNilCamera  = errors.New("camera is nil")
	errNilShape   = errors.New("shape is nil")
	errNilLight   = errors.New("light is nil")
	errNoMaterial = errors.New("primitive has neither a material nor an emitter")
	errEmptyMesh  = errors.New("mesh has no triangles")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera     *geometry.Camera
	Shapes     []geometry.Shape // Flattened primitives, including light surfaces
	Lights     []lights.Light
	Background core.Vec3     // Radiance returned by rays that leave the scene
	BVH        *geometry.BVH // Acceleration structure over Shapes
	Excluded   []geometry.ExcludedPrimitive
	BuildTime  time.Duration
}

// Options controls how New assembles a scene
type Options struct {
	Background core.Vec3
	BVH        geometry.BuildOptions
}

// DefaultOptions returns a black background and the default BVH build
func DefaultOptions() Options {
	return Options{BVH: geometry.DefaultBuildOptions()}
}

// New validates the inputs, flattens aggregates into primitives, builds the BVH and
// preprocesses lights that depend on the scene extent. A scene without primitives is valid.
func New(camera *geometry.Camera, shapes []geometry.Shape, lts []lights.Light, opts Options) (*Scene, error) {
	if camera == nil {
		return nil, newSceneError("camera", -1, errNilCamera)
	}

	var prims []geometry.Shape
	for i, s := range shapes {
		flat, err := flatten(s)
		if err != nil {
			component := "shape"
			if _, ok := s.(geometry.Aggregate); ok {
				component = "mesh"
			}
			return nil, newSceneError(component, i, err)
		}
		prims = append(prims, flat...)
	}

	for i, l := range lts {
		if l == nil {
			return nil, newSceneError("light", i, errNilLight)
		}
		if err := l.Validate(); err != nil {
			return nil, newSceneError("light", i, err)
		}
		if area, ok := l.(interface{ Shape() geometry.Shape }); ok {
			prims = append(prims, area.Shape())
		}
	}

	if !validBackground(opts.Background) {
		return nil, newSceneError("background", -1, fmt.Errorf("radiance %v is not finite and non-negative", opts.Background))
	}

	bvh, result := geometry.NewBVH(prims, opts.BVH)
	for _, ex := range result.Excluded {
		logger.Warningf("Excluding primitive %d from BVH: %v", ex.Index, ex.Err)
	}
	stats := bvh.Stats()
	logger.Infof("Built BVH (%s) over %d primitives: %d nodes, %d leaves, depth %d in %v",
		opts.BVH.Split, stats.Primitives, stats.Nodes, stats.Leaves, stats.MaxDepth, result.Duration)

	s := &Scene{
		Camera:     camera,
		Shapes:     prims,
		Lights:     lts,
		Background: opts.Background,
		BVH:        bvh,
		Excluded:   result.Excluded,
		BuildTime:  result.Duration,
	}

	center, radius := s.WorldBounds()
	for i, l := range lts {
		if p, ok := l.(lights.Preprocessor); ok {
			if err := p.Preprocess(center, radius); err != nil {
				return nil, newSceneError("light", i, err)
			}
		}
	}

	return s, nil
}

// flatten validates a shape and expands aggregates into their primitives
func flatten(s geometry.Shape) ([]geometry.Shape, error) {
	if s == nil {
		return nil, errNilShape
	}
	agg, ok := s.(geometry.Aggregate)
	if !ok {
		if err := checkSurface(s); err != nil {
			return nil, err
		}
		return []geometry.Shape{s}, nil
	}

	prims := agg.Primitives()
	if len(prims) == 0 {
		return nil, errEmptyMesh
	}
	for j, p := range prims {
		if p == nil {
			return nil, fmt.Errorf("primitive %d: %w", j, errNilShape)
		}
		if err := checkSurface(p); err != nil {
			return nil, fmt.Errorf("primitive %d: %w", j, err)
		}
	}
	return prims, nil
}

// checkSurface rejects primitives that nothing could shade
func checkSurface(s geometry.Shape) error {
	var mat material.Material
	var emitter material.Emitter
	switch p := s.(type) {
	case *geometry.Triangle:
		mat, emitter = p.Material, p.Emitter
	case *geometry.Sphere:
		mat, emitter = p.Material, p.Emitter
	case *geometry.Quad:
		mat, emitter = p.Material, p.Emitter
	default:
		return nil
	}
	if isNil(mat) && emitter == nil {
		return errNoMaterial
	}
	return nil
}

// isNil catches typed nil pointers stored in the Material interface
func isNil(m material.Material) bool {
	switch v := m.(type) {
	case nil:
		return true
	case *material.Matte:
		return v == nil
	case *material.Glass:
		return v == nil
	case *material.Metal:
		return v == nil
	case *material.Glossy:
		return v == nil
	}
	return false
}

func validBackground(v core.Vec3) bool {
	return v.IsFinite() && v.X >= 0 && v.Y >= 0 && v.Z >= 0
}

// WorldBounds returns the bounding sphere of the BVH; an empty scene uses the unit sphere
func (s *Scene) WorldBounds() (core.Vec3, float64) {
	box := s.BVH.BoundingBox()
	if !box.IsValid() || !box.IsFinite() {
		return core.Vec3{}, 1
	}
	center := box.Center()
	radius := box.Max.Subtract(center).Length()
	if radius == 0 || math.IsNaN(radius) {
		radius = 1
	}
	return center, radius
}

// Intersect finds the closest hit within the ray's own [TMin, TMax] range
func (s *Scene) Intersect(ray core.Ray) (*material.SurfaceInteraction, bool) {
	return s.BVH.Hit(ray, ray.TMin, ray.TMax)
}

// IntersectWithStats is Intersect that also counts traversal work
func (s *Scene) IntersectWithStats(ray core.Ray) (*material.SurfaceInteraction, bool, geometry.TraversalStats) {
	return s.BVH.HitWithStats(ray, ray.TMin, ray.TMax)
}

// Occluded reports whether anything blocks the ray segment
func (s *Scene) Occluded(ray core.Ray) bool {
	return s.BVH.Occluded(ray)
}

// PrimitiveCount returns the number of primitives in the BVH
func (s *Scene) PrimitiveCount() int {
	return len(s.BVH.Primitives())
}

// NewGroundQuad creates a horizontal quad centered at the given point with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points along +Y
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}
