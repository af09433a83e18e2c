package intersect

import "github.com/chazu/geomkit/pkg/geom"

// ClassifySegmentPlane places seg relative to pl using the signed distances
// d1, d2 of its endpoints:
//
//	both ≈ 0          SegmentLiesOnPlane
//	exactly one ≈ 0   EndpointOnPlane
//	opposite signs    SegmentCrossesPlane
//	same sign         NoIntersection
func ClassifySegmentPlane[T geom.Number](seg geom.Segment3[T], pl geom.Plane[T], opts ...geom.Option) PlaneKind {
	kind, _, _ := classify(seg, pl, geom.Epsilon(opts...))
	return kind
}

// SegmentPlaneIntersects reports whether seg touches pl.
func SegmentPlaneIntersects[T geom.Number](seg geom.Segment3[T], pl geom.Plane[T], opts ...geom.Option) bool {
	return ClassifySegmentPlane(seg, pl, opts...) != NoIntersection
}

// SegmentPlane classifies seg against pl and computes the intersection.
//
// For SegmentCrossesPlane the point is p1 + t(p2-p1) with
// t = -d1 / (n · (p2-p1)). If that denominator is below the tolerance the
// kind is kept but At reports no point. Coordinates are rounded to the
// nearest value for integer T.
func SegmentPlane[T geom.Number](seg geom.Segment3[T], pl geom.Plane[T], opts ...geom.Option) PlaneResult[T] {
	eps := geom.Epsilon(opts...)
	kind, d1, _ := classify(seg, pl, eps)

	switch kind {
	case SegmentLiesOnPlane:
		return PlaneResult[T]{Kind: kind, segment: seg}
	case EndpointOnPlane:
		p := seg.End
		if nearZero(d1, eps) {
			p = seg.Start
		}
		return PlaneResult[T]{Kind: kind, point: p, hasPoint: true}
	case SegmentCrossesPlane:
		start := seg.Start.Float64()
		dir := seg.End.Float64().Sub(start)
		denom := pl.Normal().Dot(dir)
		if nearZero(denom, eps) {
			return PlaneResult[T]{Kind: kind}
		}
		t := -d1 / denom
		p := start.Add(geom.Point3[float64]{dir[0] * t, dir[1] * t, dir[2] * t})
		return PlaneResult[T]{Kind: kind, point: geom.Point3From[T](p), hasPoint: true}
	default:
		return PlaneResult[T]{Kind: NoIntersection}
	}
}

// SegmentPlaneIntersectionPoint returns the unique point where seg meets pl,
// if there is one.
func SegmentPlaneIntersectionPoint[T geom.Number](seg geom.Segment3[T], pl geom.Plane[T], opts ...geom.Option) (geom.Point3[T], bool) {
	return SegmentPlane(seg, pl, opts...).At()
}

func classify[T geom.Number](seg geom.Segment3[T], pl geom.Plane[T], eps float64) (PlaneKind, float64, float64) {
	d1 := pl.SignedDistance(seg.Start)
	d2 := pl.SignedDistance(seg.End)
	z1, z2 := nearZero(d1, eps), nearZero(d2, eps)

	switch {
	case z1 && z2:
		return SegmentLiesOnPlane, d1, d2
	case z1 || z2:
		return EndpointOnPlane, d1, d2
	case (d1 < 0) != (d2 < 0):
		return SegmentCrossesPlane, d1, d2
	default:
		return NoIntersection, d1, d2
	}
}
