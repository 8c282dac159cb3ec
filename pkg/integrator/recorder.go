package integrator

import (
	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/material"
)

// SegmentType classifies a traced ray for debug output
type SegmentType string

const (
	SegmentCamera       SegmentType = "camera"
	SegmentShadow       SegmentType = "shadow"
	SegmentReflection   SegmentType = "reflection"
	SegmentTransmission SegmentType = "transmission"
	SegmentDiffuse      SegmentType = "diffuse"
)

// Segment is one ray of a recorded path
type Segment struct {
	Type     SegmentType
	Depth    int
	Ray      core.Ray
	Hit      bool
	Point    core.Vec3 // Hit point, or the shadow ray target
	Occluded bool      // Shadow rays only
}

// PathRecorder collects the rays traced for one pixel sample in order.
// A nil recorder ignores everything.
type PathRecorder struct {
	Segments []Segment
}

func (r *PathRecorder) recordHit(t SegmentType, depth int, ray core.Ray, si *material.SurfaceInteraction, hit bool) {
	if r == nil {
		return
	}
	seg := Segment{Type: t, Depth: depth, Ray: ray, Hit: hit}
	if hit {
		seg.Point = si.Point
	}
	r.Segments = append(r.Segments, seg)
}

func (r *PathRecorder) recordShadow(depth int, ray core.Ray, target core.Vec3, occluded bool) {
	if r == nil {
		return
	}
	r.Segments = append(r.Segments, Segment{
		Type:     SegmentShadow,
		Depth:    depth,
		Ray:      ray,
		Point:    target,
		Occluded: occluded,
	})
}

// Len returns the number of recorded segments
func (r *PathRecorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Segments)
}

// Reset clears the recorder for reuse
func (r *PathRecorder) Reset() {
	if r == nil {
		return
	}
	r.Segments = r.Segments[:0]
}

// segmentFor maps the lobe that produced a direction to a segment type
func segmentFor(flags material.BxDFFlags) SegmentType {
	switch {
	case flags&material.BxDFTransmission != 0:
		return SegmentTransmission
	case flags&material.BxDFSpecular != 0, flags&material.BxDFGlossy != 0:
		return SegmentReflection
	}
	return SegmentDiffuse
}
