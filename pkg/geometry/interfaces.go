package geometry

import (
	"errors"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// ErrDegenerate marks primitives that cannot be intersected meaningfully
var ErrDegenerate = errors.New("degenerate primitive")

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool)
	BoundingBox() core.AABB
}

// Degenerate is implemented by shapes that can have no surface, e.g. a zero-area triangle.
// A non-nil error wraps ErrDegenerate and names the reason.
type Degenerate interface {
	Degenerate() error
}

// Aggregate is implemented by shapes that expand into several primitives for the scene BVH
type Aggregate interface {
	Primitives() []Shape
}

// CheckDegenerate classifies a primitive before it is inserted into a BVH
func CheckDegenerate(s Shape) error {
	if d, ok := s.(Degenerate); ok {
		if err := d.Degenerate(); err != nil {
			return err
		}
	}
	bounds := s.BoundingBox()
	if !bounds.IsFinite() {
		return errDegenerate("non-finite bounds")
	}
	if !bounds.IsValid() {
		return errDegenerate("inverted bounds")
	}
	return nil
}

type degenerateError struct {
	reason string
}

func errDegenerate(reason string) error {
	return &degenerateError{reason: reason}
}

func (e *degenerateError) Error() string {
	return ErrDegenerate.Error() + ": " + e.reason
}

func (e *degenerateError) Unwrap() error {
	return ErrDegenerate
}
