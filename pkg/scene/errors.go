package scene

import (
	"errors"
	"fmt"
)

// ErrScene is wrapped by every scene validation failure
var ErrScene = errors.New("invalid scene")

// SceneError reports which part of a scene failed validation
type SceneError struct {
	Component string // "camera", "shape", "light" or "mesh"
	Index     int    // Position in the input slice, -1 when not applicable
	Err       error
}

func (e *SceneError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid scene: %s: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("invalid scene: %s %d: %v", e.Component, e.Index, e.Err)
}

// Unwrap exposes both ErrScene and the underlying cause to errors.Is
func (e *SceneError) Unwrap() []error {
	return []error{ErrScene, e.Err}
}

func newSceneError(component string, index int, err error) *SceneError {
	return &SceneError{Component: component, Index: index, Err: err}
}

type errUnknownScene string

func (e errUnknownScene) Error() string {
	return fmt.Sprintf("unknown scene %q", string(e))
}
