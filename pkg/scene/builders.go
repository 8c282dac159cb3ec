package scene

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/geometry"
	"github.com/df07/go-tiled-raytracer/pkg/lights"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// SphereSceneConfig describes the single-sphere test scene
type SphereSceneConfig struct {
	Width, Height  int
	Stacks, Slices int       // Triangulation of the unit sphere
	Albedo         core.Vec3 // Matte reflectance
	LightPosition  core.Vec3
	LightIntensity core.Vec3

	// SpotAngle turns the light into a spot aimed at the sphere center when positive.
	// Half-angle in degrees; the edge fades over the outer SpotFalloff degrees.
	SpotAngle   float64
	SpotFalloff float64

	// FillDirection and FillRadiance add a distant light when the radiance is nonzero
	FillDirection core.Vec3
	FillRadiance  core.Vec3
}

// DefaultSphereSceneConfig returns a triangulated unit sphere lit from above.
// An odd stack count keeps the equator, which the camera looks at, inside a facet row.
func DefaultSphereSceneConfig(width, height int) SphereSceneConfig {
	return SphereSceneConfig{
		Width:          width,
		Height:         height,
		Stacks:         15,
		Slices:         32,
		Albedo:         core.NewVec3(0.8, 0.8, 0.8),
		LightPosition:  core.NewVec3(0, 5, 0),
		LightIntensity: core.NewVec3(25, 25, 25),
	}
}

// DefaultSpotlightSceneConfig lights only the top cap of the sphere with a spot,
// leaving the rest to a dim distant fill from the camera side.
func DefaultSpotlightSceneConfig(width, height int) SphereSceneConfig {
	config := DefaultSphereSceneConfig(width, height)
	config.LightIntensity = core.NewVec3(40, 40, 40)
	config.SpotAngle = 10
	config.SpotFalloff = 3
	config.FillDirection = core.NewVec3(0.3, 0.2, 1)
	config.FillRadiance = core.NewVec3(0.15, 0.15, 0.2)
	return config
}

// NewSphereScene creates a triangulated unit sphere at the origin seen from (0,0,5)
func NewSphereScene(config SphereSceneConfig, opts Options) (*Scene, error) {
	camera, err := geometry.NewCamera(geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 5),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   30,
		Width:  config.Width,
		Height: config.Height,
	})
	if err != nil {
		return nil, newSceneError("camera", -1, err)
	}

	mesh, err := geometry.NewUVSphereMesh(core.Vec3{}, 1, config.Stacks, config.Slices, material.NewMatte(config.Albedo, 0))
	if err != nil {
		return nil, newSceneError("mesh", 0, err)
	}

	var lts []lights.Light
	if config.SpotAngle > 0 {
		lts = append(lts, lights.NewSpotLight(config.LightPosition, core.Vec3{}, config.LightIntensity,
			config.SpotAngle, max(config.SpotAngle-config.SpotFalloff, 0)))
	} else {
		lts = append(lts, lights.NewPointLight(config.LightPosition, config.LightIntensity))
	}
	if !config.FillRadiance.IsZero() {
		lts = append(lts, lights.NewDistantLight(config.FillDirection, config.FillRadiance))
	}

	return New(camera, []geometry.Shape{mesh}, lts, opts)
}

// NewEmptyScene creates a scene with a camera and nothing else; every ray sees the background
func NewEmptyScene(width, height int, opts Options) (*Scene, error) {
	camera, err := geometry.NewCamera(geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 5),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   45,
		Width:  width,
		Height: height,
	})
	if err != nil {
		return nil, newSceneError("camera", -1, err)
	}
	return New(camera, nil, nil, opts)
}

// Names lists the built-in scenes accepted by ByName
var Names = []string{"sphere", "spotlight", "cornell", "empty"}

// ByName builds one of the built-in scenes at the given resolution
func ByName(name string, width, height int, opts Options) (*Scene, error) {
	switch name {
	case "sphere":
		return NewSphereScene(DefaultSphereSceneConfig(width, height), opts)
	case "spotlight":
		return NewSphereScene(DefaultSpotlightSceneConfig(width, height), opts)
	case "cornell":
		return NewCornellScene(width, height, opts)
	case "empty":
		return NewEmptyScene(width, height, opts)
	}
	return nil, newSceneError("name", -1, errUnknownScene(name))
}
