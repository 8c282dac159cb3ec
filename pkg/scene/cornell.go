package scene

import (
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/geometry"
	"github.com/df07/go-tiled-raytracer/pkg/lights"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// CornellBoxSize is the edge length of the standard Cornell box
const CornellBoxSize = 555.0

// NewCornellScene creates a classic Cornell box scene with quad walls and area lighting
func NewCornellScene(width, height int, opts Options) (*Scene, error) {
	camera, err := geometry.NewCamera(geometry.CameraConfig{
		Center: core.NewVec3(278, 278, -800), // Outside the open side of the box
		LookAt: core.NewVec3(278, 278, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
		Width:  width,
		Height: height,
	})
	if err != nil {
		return nil, newSceneError("camera", -1, err)
	}

	white := material.NewMatte(core.NewVec3(0.73, 0.73, 0.73), 0)
	red := material.NewMatte(core.NewVec3(0.65, 0.05, 0.05), 0)
	green := material.NewMatte(core.NewVec3(0.12, 0.45, 0.15), 20)

	boxSize := CornellBoxSize

	// Walls face into the box
	floor := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, boxSize), // u along Z
		core.NewVec3(boxSize, 0, 0), // v along X, normal +Y
		white,
	)
	ceiling := geometry.NewQuad(
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize), // normal -Y
		white,
	)
	backWall := geometry.NewQuad(
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(boxSize, 0, 0), // normal -Z
		white,
	)
	leftWall := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, boxSize, 0),
		core.NewVec3(0, 0, boxSize), // normal +X
		red,
	)
	rightWall := geometry.NewQuad(
		core.NewVec3(boxSize, 0, 0),
		core.NewVec3(0, 0, boxSize),
		core.NewVec3(0, boxSize, 0), // normal -X
		green,
	)

	// Small metal sphere, larger glass sphere and a rotated glossy block
	metalSphere := geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5, material.NewMetalPreset(material.MetalAluminium, 0.05))
	glassSphere := geometry.NewSphere(core.NewVec3(370, 90, 351), 90, material.NewGlass(core.Splat(1), core.Splat(1), 1.5))
	glossyBlock := geometry.NewBox(
		core.NewVec3(400, 60, 150),
		core.NewVec3(60, 60, 60),
		core.NewVec3(0, 18*math.Pi/180, 0),
		material.NewGlossy(core.NewVec3(0.2, 0.3, 0.7), 0.3),
	)

	// Ceiling light, just below the ceiling and facing down
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2
	ceilingLight := lights.NewRectangularLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15, 15, 15),
	)

	shapes := []geometry.Shape{floor, ceiling, backWall, leftWall, rightWall, metalSphere, glassSphere, glossyBlock}
	return New(camera, shapes, []lights.Light{ceilingLight}, opts)
}
