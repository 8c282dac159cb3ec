package geometry

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// Sphere represents an analytic sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
	Emitter  material.Emitter
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)

	// Spherical coordinates with the poles along Y
	u := 0.5 + math.Atan2(outwardNormal.X, outwardNormal.Z)/(2*math.Pi)
	v := math.Acos(core.Clamp(outwardNormal.Y, -1, 1)) / math.Pi

	si := &material.SurfaceInteraction{
		T:        root,
		Point:    point,
		UV:       core.NewVec2(u, v),
		Material: s.Material,
		Emitter:  s.Emitter,
	}
	si.SetNormals(ray, outwardNormal, outwardNormal)
	return si, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	return core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
}

// Degenerate reports spheres without a positive finite radius
func (s *Sphere) Degenerate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return errDegenerate("sphere radius must be positive and finite")
	}
	return nil
}
