package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that any union overrides
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Splat(inf), Max: Splat(-inf)}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, point := range points[1:] {
		box = box.UnionPoint(point)
	}
	return box
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// UnionPoint returns an AABB that also bounds p
func (aabb AABB) UnionPoint(p Vec3) AABB {
	return AABB{Min: aabb.Min.Min(p), Max: aabb.Max.Max(p)}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB, zero for empty boxes
func (aabb AABB) SurfaceArea() float64 {
	if !aabb.IsValid() {
		return 0
	}
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// Offset returns the position of p relative to the box corners, (0,0,0) at Min and (1,1,1) at Max
func (aabb AABB) Offset(p Vec3) Vec3 {
	o := p.Subtract(aabb.Min)
	if aabb.Max.X > aabb.Min.X {
		o.X /= aabb.Max.X - aabb.Min.X
	}
	if aabb.Max.Y > aabb.Min.Y {
		o.Y /= aabb.Max.Y - aabb.Min.Y
	}
	if aabb.Max.Z > aabb.Min.Z {
		o.Z /= aabb.Max.Z - aabb.Min.Z
	}
	return o
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsFinite reports whether both corners are free of NaN and infinities
func (aabb AABB) IsFinite() bool {
	return aabb.Min.IsFinite() && aabb.Max.IsFinite()
}

// Contains reports whether other lies entirely inside this box
func (aabb AABB) Contains(other AABB) bool {
	return other.Min.X >= aabb.Min.X && other.Min.Y >= aabb.Min.Y && other.Min.Z >= aabb.Min.Z &&
		other.Max.X <= aabb.Max.X && other.Max.Y <= aabb.Max.Y && other.Max.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := Splat(amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	invDir := NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}
	_, hit := aabb.IntersectP(ray.Origin, invDir, dirIsNeg, tMin, tMax)
	return hit
}

// IntersectP is the slab test with a precomputed inverse direction.
// Returns the entry distance clipped to [tMin, tMax] when the ray overlaps the box.
func (aabb AABB) IntersectP(origin, invDir Vec3, dirIsNeg [3]bool, tMin, tMax float64) (float64, bool) {
	for axis := 0; axis < 3; axis++ {
		lo, hi := aabb.Min.Axis(axis), aabb.Max.Axis(axis)
		if dirIsNeg[axis] {
			lo, hi = hi, lo
		}
		o := origin.Axis(axis)
		inv := invDir.Axis(axis)

		t0 := (lo - o) * inv
		t1 := (hi - o) * inv
		// 0 * inf is NaN for rays parallel to a slab that start on its boundary
		if math.IsNaN(t0) {
			t0 = math.Inf(-1)
		}
		if math.IsNaN(t1) {
			t1 = math.Inf(1)
		}
		// Widen the far bound to absorb rounding error
		t1 *= 1 + 2*gamma3

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// gamma3 is the rounding error bound for three floating-point operations
const gamma3 = 3 * (0x1p-53) / (1 - 3*(0x1p-53))
