package intersect

import (
	"fmt"

	"github.com/chazu/geomkit/pkg/geom"
)

// SegmentKind is the outcome category of a 2D segment-segment query.
type SegmentKind int

const (
	// Disjoint segments share no point.
	Disjoint SegmentKind = iota
	// PointAt segments meet in exactly one point.
	PointAt
	// CollinearOverlap segments lie on one line and share a sub-segment of
	// positive length.
	CollinearOverlap
)

var segmentKindNames = [...]string{
	Disjoint:         "disjoint",
	PointAt:          "point",
	CollinearOverlap: "collinear_overlap",
}

func (k SegmentKind) String() string {
	if k < 0 || int(k) >= len(segmentKindNames) {
		return "unknown"
	}
	return segmentKindNames[k]
}

func (k SegmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SegmentResult is the outcome of SegmentIntersection. Only the accessor
// matching Kind reports ok.
type SegmentResult[T geom.Number] struct {
	Kind    SegmentKind
	point   geom.Point2[T]
	overlap geom.Segment2[T]
}

// At returns the unique intersection point when Kind is PointAt.
func (r SegmentResult[T]) At() (geom.Point2[T], bool) {
	return r.point, r.Kind == PointAt
}

// Overlap returns the shared sub-segment when Kind is CollinearOverlap. The
// overlap runs in the direction of the first segment of the query.
func (r SegmentResult[T]) Overlap() (geom.Segment2[T], bool) {
	return r.overlap, r.Kind == CollinearOverlap
}

// Intersects reports whether the segments share at least one point.
func (r SegmentResult[T]) Intersects() bool {
	return r.Kind != Disjoint
}

func (r SegmentResult[T]) String() string {
	switch r.Kind {
	case PointAt:
		return fmt.Sprintf("point %s", r.point)
	case CollinearOverlap:
		return fmt.Sprintf("collinear overlap %s", r.overlap)
	default:
		return r.Kind.String()
	}
}

// PlaneKind is the outcome category of a segment-plane query.
type PlaneKind int

const (
	NoIntersection PlaneKind = iota
	EndpointOnPlane
	SegmentCrossesPlane
	SegmentLiesOnPlane
)

var planeKindNames = [...]string{
	NoIntersection:      "no_intersection",
	EndpointOnPlane:     "endpoint_on_plane",
	SegmentCrossesPlane: "segment_crosses_plane",
	SegmentLiesOnPlane:  "segment_lies_on_plane",
}

func (k PlaneKind) String() string {
	if k < 0 || int(k) >= len(planeKindNames) {
		return "unknown"
	}
	return planeKindNames[k]
}

func (k PlaneKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParsePlaneKind is the inverse of PlaneKind.String.
func ParsePlaneKind(s string) (PlaneKind, error) {
	for i, name := range planeKindNames {
		if name == s {
			return PlaneKind(i), nil
		}
	}
	return NoIntersection, fmt.Errorf("unknown plane intersection kind %q", s)
}

// PlaneResult is the outcome of SegmentPlane.
type PlaneResult[T geom.Number] struct {
	Kind     PlaneKind
	point    geom.Point3[T]
	hasPoint bool
	segment  geom.Segment3[T]
}

// At returns the unique intersection point. It reports ok for
// EndpointOnPlane and for SegmentCrossesPlane unless the segment direction
// is numerically parallel to the plane.
func (r PlaneResult[T]) At() (geom.Point3[T], bool) {
	return r.point, r.hasPoint
}

// Contained returns the whole segment when it lies on the plane.
func (r PlaneResult[T]) Contained() (geom.Segment3[T], bool) {
	return r.segment, r.Kind == SegmentLiesOnPlane
}

// Intersects reports whether the segment touches the plane at all.
func (r PlaneResult[T]) Intersects() bool {
	return r.Kind != NoIntersection
}

func (r PlaneResult[T]) String() string {
	switch {
	case r.hasPoint:
		return fmt.Sprintf("%s at %s", r.Kind, r.point)
	case r.Kind == SegmentLiesOnPlane:
		return fmt.Sprintf("%s %s", r.Kind, r.segment)
	default:
		return r.Kind.String()
	}
}
