package geometry

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// ErrInvalidMesh is returned for meshes with broken index or attribute data
var ErrInvalidMesh = errors.New("invalid triangle mesh")

// TriangleMesh represents a collection of indexed triangles.
// The scene expands it into its triangles; used on its own it intersects through a private BVH.
type TriangleMesh struct {
	triangles []*Triangle
	bbox      core.AABB

	once sync.Once
	bvh  *BVH
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	VertexNormals []core.Vec3         // Optional shading normals, one per vertex
	Materials     []material.Material // Optional per-triangle materials
	Rotation      *core.Vec3          // Optional rotation to apply to vertices
	Center        *core.Vec3          // Optional center point for rotation
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// options: optional parameters (can be nil for basic mesh)
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrInvalidMesh, len(faces))
	}
	numTriangles := len(faces) / 3

	if options == nil {
		options = &TriangleMeshOptions{}
	}
	if options.VertexNormals != nil && len(options.VertexNormals) != len(vertices) {
		return nil, fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(options.VertexNormals), len(vertices))
	}
	if options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("%w: %d materials for %d triangles", ErrInvalidMesh, len(options.Materials), numTriangles)
	}

	// Apply rotation if specified
	workingVertices := vertices
	if options.Rotation != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			// Translate to center, rotate, then translate back
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}
	}

	mesh := &TriangleMesh{
		triangles: make([]*Triangle, numTriangles),
		bbox:      core.EmptyAABB(),
	}
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(workingVertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, i, idx, len(workingVertices))
			}
		}

		triangleMaterial := mat
		if options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}
		if triangleMaterial == nil {
			return nil, fmt.Errorf("%w: face %d has no material", ErrInvalidMesh, i)
		}

		var triangle *Triangle
		if options.VertexNormals != nil {
			n := options.VertexNormals
			triangle = NewTriangleWithNormals(workingVertices[i0], workingVertices[i1], workingVertices[i2], n[i0], n[i1], n[i2], triangleMaterial)
		} else {
			triangle = NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], triangleMaterial)
		}
		mesh.triangles[i] = triangle
		mesh.bbox = mesh.bbox.Union(triangle.BoundingBox())
	}

	return mesh, nil
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	tm.once.Do(func() {
		tm.bvh, _ = NewBVH(tm.Primitives(), DefaultBuildOptions())
	})
	return tm.bvh.Hit(ray, tMin, tMax)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// Primitives returns the mesh triangles as individual shapes
func (tm *TriangleMesh) Primitives() []Shape {
	shapes := make([]Shape, len(tm.triangles))
	for i, t := range tm.triangles {
		shapes[i] = t
	}
	return shapes
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// NewUVSphereMesh triangulates a sphere with latitude stacks and longitude slices, poles along Y.
// Vertex normals point away from the center so shading is smooth. Slices are rotated by a
// quarter step so that the +Z axis crosses a facet interior rather than an edge.
func NewUVSphereMesh(center core.Vec3, radius float64, stacks, slices int, mat material.Material) (*TriangleMesh, error) {
	if stacks < 2 || slices < 3 {
		return nil, fmt.Errorf("%w: sphere needs at least 2 stacks and 3 slices, got %d and %d", ErrInvalidMesh, stacks, slices)
	}
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: sphere radius %v", ErrInvalidMesh, radius)
	}

	phiOffset := 0.25 * 2 * math.Pi / float64(slices)
	var vertices, normals []core.Vec3
	for i := 0; i <= stacks; i++ {
		theta := math.Pi * float64(i) / float64(stacks)
		for j := 0; j < slices; j++ {
			phi := 2*math.Pi*float64(j)/float64(slices) + phiOffset
			n := core.NewVec3(math.Sin(theta)*math.Sin(phi), math.Cos(theta), math.Sin(theta)*math.Cos(phi))
			vertices = append(vertices, center.Add(n.Multiply(radius)))
			normals = append(normals, n)
		}
	}

	vertex := func(i, j int) int {
		return i*slices + j%slices
	}
	var faces []int
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a, b := vertex(i, j), vertex(i, j+1)
			c, d := vertex(i+1, j), vertex(i+1, j+1)
			// Counter-clockwise seen from outside; the pole rows collapse to one triangle
			if i != 0 {
				faces = append(faces, a, c, b)
			}
			if i != stacks-1 {
				faces = append(faces, b, c, d)
			}
		}
	}

	return NewTriangleMesh(vertices, faces, mat, &TriangleMeshOptions{VertexNormals: normals})
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	// Rotation around X axis
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	// Rotation around Y axis
	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	// Rotation around Z axis
	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
