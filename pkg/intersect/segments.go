package intersect

import (
	"math"

	"github.com/chazu/geomkit/pkg/geom"
)

// SegmentsIntersect reports whether the closed segments a and b share at
// least one point. Touching at an endpoint and collinear overlap both count.
func SegmentsIntersect[T geom.Number](a, b geom.Segment2[T], opts ...geom.Option) bool {
	p1, q1 := a.Start, a.End
	p2, q2 := b.Start, b.End

	o1 := Orient(p1, q1, p2, opts...)
	o2 := Orient(p1, q1, q2, opts...)
	o3 := Orient(p2, q2, p1, opts...)
	o4 := Orient(p2, q2, q1, opts...)

	if o1 != o2 && o3 != o4 {
		return true
	}

	switch {
	case o1 == Collinear && OnSegment(p1, p2, q1):
		return true
	case o2 == Collinear && OnSegment(p1, q2, q1):
		return true
	case o3 == Collinear && OnSegment(p2, p1, q2):
		return true
	case o4 == Collinear && OnSegment(p2, q1, q2):
		return true
	}
	return false
}

// SegmentIntersection computes where a and b meet.
//
// Segments on non-parallel lines meet in at most one point, found by solving
// the two parametric line equations. When the lines are parallel
// (|D| below the tolerance) and the segments still intersect they are
// collinear: the shared interval is reported as CollinearOverlap, or as
// PointAt when it has zero length.
//
// Intersection coordinates are computed in float64 and rounded to the
// nearest value for integer T.
func SegmentIntersection[T geom.Number](a, b geom.Segment2[T], opts ...geom.Option) SegmentResult[T] {
	if !SegmentsIntersect(a, b, opts...) {
		return SegmentResult[T]{Kind: Disjoint}
	}

	p1, q1 := a.Start.Float64(), a.End.Float64()
	p2, q2 := b.Start.Float64(), b.End.Float64()
	x1, y1 := p1[0], p1[1]
	x2, y2 := q1[0], q1[1]
	x3, y3 := p2[0], p2[1]
	x4, y4 := q2[0], q2[1]

	d := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if nearZero(d, geom.Epsilon(opts...)) {
		return collinearOverlap(a, b, opts...)
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / d
	p := geom.Point2[float64]{x1 + t*(x2-x1), y1 + t*(y2-y1)}
	return SegmentResult[T]{Kind: PointAt, point: geom.Point2From[T](p)}
}

// collinearOverlap intersects two segments already known to share a point
// and lie on one line. Both are projected onto the axis along which a varies
// most; the overlap of the projected intervals is mapped back onto a.
func collinearOverlap[T geom.Number](a, b geom.Segment2[T], opts ...geom.Option) SegmentResult[T] {
	switch {
	case a.IsDegenerate(opts...):
		return SegmentResult[T]{Kind: PointAt, point: a.Start}
	case b.IsDegenerate(opts...):
		return SegmentResult[T]{Kind: PointAt, point: b.Start}
	}

	pa, qa := a.Start.Float64(), a.End.Float64()
	pb, qb := b.Start.Float64(), b.End.Float64()
	axis := dominantAxis(qa.Sub(pa))

	lo := math.Max(math.Min(pa[axis], qa[axis]), math.Min(pb[axis], qb[axis]))
	hi := math.Min(math.Max(pa[axis], qa[axis]), math.Max(pb[axis], qb[axis]))
	if pa[axis] > qa[axis] {
		lo, hi = hi, lo
	}

	start := pointAlong(pa, qa, axis, lo)
	if nearZero(hi-lo, geom.Epsilon(opts...)) {
		return SegmentResult[T]{Kind: PointAt, point: geom.Point2From[T](start)}
	}
	end := pointAlong(pa, qa, axis, hi)
	return SegmentResult[T]{
		Kind:    CollinearOverlap,
		overlap: geom.NewSegment(geom.Point2From[T](start), geom.Point2From[T](end)),
	}
}

func dominantAxis(dir geom.Point2[float64]) int {
	if math.Abs(dir[1]) > math.Abs(dir[0]) {
		return 1
	}
	return 0
}

// pointAlong returns the point on the line through p and q whose coordinate
// on axis equals c. p and q must differ on axis.
func pointAlong(p, q geom.Point2[float64], axis int, c float64) geom.Point2[float64] {
	t := (c - p[axis]) / (q[axis] - p[axis])
	out := geom.Point2[float64]{p[0] + t*(q[0]-p[0]), p[1] + t*(q[1]-p[1])}
	out[axis] = c
	return out
}
