package geometry

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3         // One corner of the quad
	U        core.Vec3         // First edge vector
	V        core.Vec3         // Second edge vector
	Normal   core.Vec3         // Normal vector (computed from U × V)
	Material material.Material // Material of the quad
	Emitter  material.Emitter  // Optional area light
	d        float64           // Plane equation constant: n·p = d
	w        core.Vec3         // Cached cross product for planar coordinates
	area     float64
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	cross := u.Cross(v)
	q := &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Material: mat,
		area:     cross.Length(),
	}
	if q.area > 0 {
		q.Normal = cross.Multiply(1 / q.area)
		q.d = q.Normal.Dot(corner)
		q.w = cross.Multiply(1.0 / cross.Dot(cross))
	}
	return q
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	// Parallel rays never hit
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-12 {
		return nil, false
	}

	t := (q.d - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	si := &material.SurfaceInteraction{
		T:        t,
		Point:    hitPoint,
		UV:       core.NewVec2(alpha, beta),
		Material: q.Material,
		Emitter:  q.Emitter,
	}
	si.SetNormals(ray, q.Normal, q.Normal)
	return si, true
}

// BoundingBox returns the axis-aligned bounding box of the quad, padded where it is flat
func (q *Quad) BoundingBox() core.AABB {
	box := core.NewAABBFromPoints(q.Corner, q.Corner.Add(q.U), q.Corner.Add(q.V), q.Corner.Add(q.U).Add(q.V))
	const pad = 1e-4
	size := box.Size()
	for axis := 0; axis < 3; axis++ {
		if size.Axis(axis) < pad {
			box = padAxis(box, axis, pad/2)
		}
	}
	return box
}

// Degenerate reports quads with parallel or zero-length edges
func (q *Quad) Degenerate() error {
	if !q.Corner.IsFinite() || !q.U.IsFinite() || !q.V.IsFinite() {
		return errDegenerate("non-finite quad")
	}
	if q.area == 0 {
		return errDegenerate("zero-area quad")
	}
	return nil
}

// Area returns the surface area of the quad
func (q *Quad) Area() float64 {
	return q.area
}

func padAxis(box core.AABB, axis int, amount float64) core.AABB {
	switch axis {
	case 0:
		box.Min.X -= amount
		box.Max.X += amount
	case 1:
		box.Min.Y -= amount
		box.Max.Y += amount
	default:
		box.Min.Z -= amount
		box.Max.Z += amount
	}
	return box
}
