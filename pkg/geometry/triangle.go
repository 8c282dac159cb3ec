package geometry

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle
	Emitter    material.Emitter  // Optional area light
	normals    *[3]core.Vec3     // Optional per-vertex shading normals
	normal     core.Vec3         // Cached geometric normal
	area       float64           // Cached area
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
	}

	// Precompute normal and bounding box for efficiency
	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	t.area = 0.5 * cross.Length()
	if t.area > 0 {
		t.normal = cross.Multiply(1 / (2 * t.area))
	}
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)

	return t
}

// NewTriangleWithNormals creates a triangle that interpolates the given vertex normals for shading
func NewTriangleWithNormals(v0, v1, v2, n0, n1, n2 core.Vec3, mat material.Material) *Triangle {
	t := NewTriangle(v0, v1, v2, mat)
	t.normals = &[3]core.Vec3{n0.Normalize(), n1.Normalize(), n2.Normalize()}
	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	const epsilon = 1e-12

	// Calculate two edge vectors
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	// If determinant is near zero, ray lies in plane of triangle
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return nil, false
	}

	shading := t.normal
	if t.normals != nil {
		w := 1 - u - v
		shading = t.normals[0].Multiply(w).
			Add(t.normals[1].Multiply(u)).
			Add(t.normals[2].Multiply(v)).
			Normalize()
	}

	si := &material.SurfaceInteraction{
		T:        tHit,
		Point:    ray.At(tHit),
		UV:       core.NewVec2(u, v),
		Material: t.Material,
		Emitter:  t.Emitter,
	}
	si.SetNormals(ray, t.normal, shading)
	return si, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Degenerate reports zero-area and non-finite triangles
func (t *Triangle) Degenerate() error {
	if !t.V0.IsFinite() || !t.V1.IsFinite() || !t.V2.IsFinite() {
		return errDegenerate("non-finite vertex")
	}
	if t.area == 0 || math.IsNaN(t.area) {
		return errDegenerate("zero-area triangle")
	}
	return nil
}

// Normal returns the triangle's geometric normal, following the vertex winding
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Area returns the triangle's surface area
func (t *Triangle) Area() float64 {
	return t.area
}
