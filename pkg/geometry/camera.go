package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// ErrInvalidCamera is returned for camera configurations that cannot produce rays
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center core.Vec3 // Camera position
	LookAt core.Vec3 // Point the camera is looking at
	Up     core.Vec3 // Up direction (usually 0,1,0)
	VFov   float64   // Vertical field of view in degrees
	Width  int       // Image width in pixels
	Height int       // Image height in pixels
}

// Camera is a pinhole camera mapping raster positions to world-space rays
type Camera struct {
	config      CameraConfig
	origin      core.Vec3
	upperLeft   core.Vec3 // Position of raster (0,0) on the image plane
	pixelDeltaU core.Vec3 // One pixel to the right
	pixelDeltaV core.Vec3 // One pixel down
}

// NewCamera validates the configuration and precomputes the image plane
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", ErrInvalidCamera, config.Width, config.Height)
	}
	if !(config.VFov > 0 && config.VFov < 180) {
		return nil, fmt.Errorf("%w: vertical fov %v outside (0, 180)", ErrInvalidCamera, config.VFov)
	}
	if !config.Center.IsFinite() || !config.LookAt.IsFinite() || !config.Up.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite position", ErrInvalidCamera)
	}
	forward := config.LookAt.Subtract(config.Center)
	if forward.IsZero() {
		return nil, fmt.Errorf("%w: look-at equals camera position", ErrInvalidCamera)
	}
	w := forward.Normalize().Negate()
	right := config.Up.Cross(w)
	if right.Length() < 1e-12 {
		return nil, fmt.Errorf("%w: up vector parallel to view direction", ErrInvalidCamera)
	}
	u := right.Normalize()
	v := w.Cross(u)

	// Image plane at unit distance
	viewportHeight := 2 * math.Tan(core.Radians(config.VFov)/2)
	viewportWidth := viewportHeight * float64(config.Width) / float64(config.Height)
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Multiply(-viewportHeight)

	return &Camera{
		config:      config,
		origin:      config.Center,
		upperLeft:   config.Center.Subtract(w).Subtract(viewportU.Multiply(0.5)).Subtract(viewportV.Multiply(0.5)),
		pixelDeltaU: viewportU.Multiply(1 / float64(config.Width)),
		pixelDeltaV: viewportV.Multiply(1 / float64(config.Height)),
	}, nil
}

// GetRay returns the primary ray through raster position (x, y); (0,0) is the top-left corner
// and pixel (i, j) spans [i, i+1) x [j, j+1).
func (c *Camera) GetRay(x, y float64) core.Ray {
	target := c.upperLeft.Add(c.pixelDeltaU.Multiply(x)).Add(c.pixelDeltaV.Multiply(y))
	return core.NewRay(c.origin, target.Subtract(c.origin).Normalize())
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.config.Height
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
