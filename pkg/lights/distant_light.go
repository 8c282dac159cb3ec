package lights

import (
	"errors"
	"fmt"
	"sync"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// errNotPreprocessed is returned when a distant light is sampled before the scene extent is known
var errNotPreprocessed = errors.New("distant light used before Preprocess")

// DistantLight arrives from a single direction everywhere, like sunlight
type DistantLight struct {
	Direction   core.Vec3 // Normalized direction toward the light
	L           core.Vec3 // Radiance
	worldRadius float64
	warnOnce    sync.Once
}

// NewDistantLight creates a distant light shining from direction toLight
func NewDistantLight(toLight, radiance core.Vec3) *DistantLight {
	return &DistantLight{Direction: toLight.Normalize(), L: radiance}
}

func (dl *DistantLight) Type() LightType {
	return LightTypeDistant
}

// Preprocess records the scene radius so shadow rays leave the scene
func (dl *DistantLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	if worldRadius <= 0 {
		worldRadius = 1
	}
	dl.worldRadius = worldRadius
	return nil
}

// SampleLi places the light twice the scene radius away along its direction
func (dl *DistantLight) SampleLi(point core.Vec3, u core.Vec2) LightSample {
	dist := 2 * dl.worldRadius
	if dist == 0 {
		dl.warnOnce.Do(func() { logger.Warningf("%v", errNotPreprocessed) })
		dist = 1e4
	}
	return LightSample{
		Point:     point.Add(dl.Direction.Multiply(dist)),
		Direction: dl.Direction,
		Distance:  dist,
		Li:        dl.L,
		PDF:       1,
	}
}

func (dl *DistantLight) IsDelta() bool {
	return true
}

func (dl *DistantLight) Validate() error {
	if !dl.Direction.IsFinite() || dl.Direction.IsZero() {
		return fmt.Errorf("%w: distant light direction %v", ErrInvalidLight, dl.Direction)
	}
	if !validPower(dl.L) {
		return fmt.Errorf("%w: distant light radiance %v", ErrInvalidLight, dl.L)
	}
	return nil
}
