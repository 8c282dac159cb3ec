package geometry

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// Box is a rectangular box made up of 6 outward-facing quads with optional rotation
type Box struct {
	Center   core.Vec3         // Center point of the box
	Size     core.Vec3         // Half-extents along each axis
	Rotation core.Vec3         // Rotation angles in radians (X, Y, Z)
	Material material.Material // Material for all faces
	faces    [6]*Quad
	bbox     core.AABB
}

// NewBox creates a new box with the given center, half-extents, rotation, and material.
// Rotation is in radians around X, Y, Z axes (applied in that order).
func NewBox(center, size, rotation core.Vec3, mat material.Material) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
		Material: mat,
	}
	box.generateFaces()
	return box
}

// NewAxisAlignedBox creates a new axis-aligned box (no rotation)
func NewAxisAlignedBox(center, size core.Vec3, mat material.Material) *Box {
	return NewBox(center, size, core.Vec3{}, mat)
}

// generateFaces creates the 6 quad faces of the box
func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = rotateVertex(corners[i].MultiplyVec(b.Size), b.Rotation).Add(b.Center)
	}

	// corner, u, v per face with u × v pointing outward
	faces := [6][3]int{
		{4, 5, 7}, // front (+Z)
		{1, 0, 2}, // back (-Z)
		{5, 1, 6}, // right (+X)
		{0, 4, 3}, // left (-X)
		{3, 7, 2}, // top (+Y)
		{4, 0, 5}, // bottom (-Y)
	}
	for i, f := range faces {
		c := corners[f[0]]
		b.faces[i] = NewQuad(c, corners[f[1]].Subtract(c), corners[f[2]].Subtract(c), b.Material)
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
}

// Hit tests if a ray intersects with any face of the box
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	var closest *material.SurfaceInteraction
	for _, face := range b.faces {
		if si, ok := face.Hit(ray, tMin, tMax); ok {
			closest = si
			tMax = si.T
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}

// Primitives returns the six faces so the scene BVH can index them separately
func (b *Box) Primitives() []Shape {
	shapes := make([]Shape, len(b.faces))
	for i, f := range b.faces {
		shapes[i] = f
	}
	return shapes
}
