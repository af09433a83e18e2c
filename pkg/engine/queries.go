package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/geomkit/pkg/geom"
	"github.com/chazu/geomkit/pkg/intersect"
)

// queryFunc is a builtin whose arguments have already been resolved.
type queryFunc func(b *builder, args []zygo.Sexp) (zygo.Sexp, error)

// addQuery registers fn under name, checking the argument count and
// resolving shape references first. Errors are prefixed with the name the
// user wrote.
func addQuery(env *zygo.Zlisp, b *builder, name, display string, arity int, fn queryFunc) {
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != arity {
			return zygo.SexpNull, fmt.Errorf("%s requires %d arguments, got %d", display, arity, len(args))
		}
		vals, err := b.resolveAll(display, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		out, err := fn(b, vals)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return out, nil
	})
}

func registerQueries(env *zygo.Zlisp, b *builder) {
	addQuery(env, b, "orientation", "orientation", 3, queryOrientation)
	addQuery(env, b, "on_segment", "on-segment", 3, queryOnSegment)
	addQuery(env, b, "intersects", "intersects", 2, queryIntersects)
	addQuery(env, b, "intersection", "intersection", 2, queryIntersection)
	addQuery(env, b, "classify", "classify", 2, queryClassify)
	addQuery(env, b, "distance", "distance", 2, queryDistance)
	addQuery(env, b, "contains", "contains", 2, queryContains)
	addQuery(env, b, "length", "length", 1, queryLength)
	addQuery(env, b, "midpoint", "midpoint", 1, queryMidpoint)
	addQuery(env, b, "centroid", "centroid", 1, queryCentroid)
	addQuery(env, b, "area", "area", 1, queryArea)
	addQuery(env, b, "normalize", "normalize", 1, queryNormalize)
	addQuery(env, b, "dot", "dot", 2, queryDot)
	addQuery(env, b, "cross", "cross", 2, queryCross)
	addQuery(env, b, "parallel", "parallel", 2, queryParallel)
	addQuery(env, b, "angle", "angle", 2, queryAngle)
}

// (orientation p1 p2 p3) -> "collinear" | "counterclockwise" | "clockwise"
func queryOrientation(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	var pts [3]geom.Point2[float64]
	for i, a := range args {
		p, err := toPoint2(a)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return strSexp(intersect.Orient(pts[0], pts[1], pts[2], b.opts()...).String()), nil
}

// (on-segment p q r) -> whether q lies in the bounding box of p and r
func queryOnSegment(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	var pts [3]geom.Point2[float64]
	for i, a := range args {
		p, err := toPoint2(a)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return boolSexp(intersect.OnSegment(pts[0], pts[1], pts[2])), nil
}

// segmentPlane orders a (segment, plane) argument pair given in either order.
func segmentPlane(a, c zygo.Sexp) (geom.Segment3[float64], geom.Plane[float64], bool) {
	if _, ok := a.(*sexpPlane); ok {
		a, c = c, a
	}
	seg, err1 := toSegment3(a)
	pl, err2 := toPlane(c)
	return seg, pl, err1 == nil && err2 == nil
}

// (intersects seg seg) / (intersects seg plane)
func queryIntersects(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	if s1, ok := args[0].(*sexpSegment2); ok {
		s2, ok := args[1].(*sexpSegment2)
		if !ok {
			return nil, fmt.Errorf("expected 2D segment, got %s", describe(args[1]))
		}
		return boolSexp(intersect.SegmentsIntersect(s1.s, s2.s, b.opts()...)), nil
	}
	if seg, pl, ok := segmentPlane(args[0], args[1]); ok {
		return boolSexp(intersect.SegmentPlaneIntersects(seg, pl, b.opts()...)), nil
	}
	return nil, fmt.Errorf("expected two 2D segments or a 3D segment and a plane, got %s and %s",
		describe(args[0]), describe(args[1]))
}

// (intersection seg seg) / (intersection seg plane)
// Returns the point, the shared segment, or nil when there is no unique
// geometric answer.
func queryIntersection(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	if s1, ok := args[0].(*sexpSegment2); ok {
		s2, ok := args[1].(*sexpSegment2)
		if !ok {
			return nil, fmt.Errorf("expected 2D segment, got %s", describe(args[1]))
		}
		r := intersect.SegmentIntersection(s1.s, s2.s, b.opts()...)
		if p, ok := r.At(); ok {
			return &sexpPoint2{p: p}, nil
		}
		if s, ok := r.Overlap(); ok {
			return &sexpSegment2{s: s}, nil
		}
		return zygo.SexpNull, nil
	}
	if seg, pl, ok := segmentPlane(args[0], args[1]); ok {
		r := intersect.SegmentPlane(seg, pl, b.opts()...)
		if p, ok := r.At(); ok {
			return &sexpPoint3{p: p}, nil
		}
		if s, ok := r.Contained(); ok {
			return &sexpSegment3{s: s}, nil
		}
		return zygo.SexpNull, nil
	}
	return nil, fmt.Errorf("expected two 2D segments or a 3D segment and a plane, got %s and %s",
		describe(args[0]), describe(args[1]))
}

// (classify seg plane) -> "no_intersection" | "endpoint_on_plane" | ...
// Two 2D segments classify as "disjoint" | "point" | "collinear_overlap".
func queryClassify(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	if s1, ok := args[0].(*sexpSegment2); ok {
		s2, ok := args[1].(*sexpSegment2)
		if !ok {
			return nil, fmt.Errorf("expected 2D segment, got %s", describe(args[1]))
		}
		return strSexp(intersect.SegmentIntersection(s1.s, s2.s, b.opts()...).Kind.String()), nil
	}
	seg, pl, ok := segmentPlane(args[0], args[1])
	if !ok {
		return nil, fmt.Errorf("expected a 3D segment and a plane, got %s and %s",
			describe(args[0]), describe(args[1]))
	}
	return strSexp(intersect.ClassifySegmentPlane(seg, pl, b.opts()...).String()), nil
}

// (distance plane point) -> signed distance; (distance p q) -> Euclidean
func queryDistance(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	a, c := args[0], args[1]
	if _, ok := c.(*sexpPlane); ok {
		a, c = c, a
	}
	if pl, ok := a.(*sexpPlane); ok {
		p, err := toPoint3(c)
		if err != nil {
			return nil, err
		}
		return floatSexp(pl.pl.SignedDistance(p)), nil
	}
	switch p := a.(type) {
	case *sexpPoint2:
		q, err := toPoint2(c)
		if err != nil {
			return nil, err
		}
		return floatSexp(geom.NewSegment(p.p, q).Length()), nil
	case *sexpPoint3:
		q, err := toPoint3(c)
		if err != nil {
			return nil, err
		}
		return floatSexp(geom.NewSegment(p.p, q).Length()), nil
	}
	return nil, fmt.Errorf("expected a plane and a point or two points, got %s", describe(a))
}

// (contains plane point)
func queryContains(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	pl, err := toPlane(args[0])
	if err != nil {
		return nil, err
	}
	p, err := toPoint3(args[1])
	if err != nil {
		return nil, err
	}
	return boolSexp(pl.ContainsPoint(p, b.opts()...)), nil
}

// (length seg)
func queryLength(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpSegment2:
		return floatSexp(v.s.Length()), nil
	case *sexpSegment3:
		return floatSexp(v.s.Length()), nil
	case *sexpPoint2:
		return floatSexp(v.p.Magnitude()), nil
	case *sexpPoint3:
		return floatSexp(v.p.Magnitude()), nil
	}
	return nil, fmt.Errorf("expected segment or vector, got %s", describe(args[0]))
}

// (midpoint seg)
func queryMidpoint(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpSegment2:
		return &sexpPoint2{p: v.s.Midpoint()}, nil
	case *sexpSegment3:
		return &sexpPoint3{p: v.s.Midpoint()}, nil
	}
	return nil, fmt.Errorf("expected segment, got %s", describe(args[0]))
}

// (centroid triangle|surface|segment)
func queryCentroid(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpTriangle:
		return &sexpPoint3{p: v.t.Centroid()}, nil
	case *sexpSurface:
		return &sexpPoint3{p: v.s.Centroid()}, nil
	case *sexpSegment2:
		return &sexpPoint2{p: v.s.Midpoint()}, nil
	case *sexpSegment3:
		return &sexpPoint3{p: v.s.Midpoint()}, nil
	}
	return nil, fmt.Errorf("expected triangle, surface or segment, got %s", describe(args[0]))
}

// (area triangle|surface)
func queryArea(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpTriangle:
		return floatSexp(geom.TriangleArea(v.t)), nil
	case *sexpSurface:
		return floatSexp(geom.SurfaceArea(v.s)), nil
	}
	return nil, fmt.Errorf("expected triangle or surface, got %s", describe(args[0]))
}

// (normalize v)
func queryNormalize(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpPoint2:
		n, err := v.p.Normalize(b.opts()...)
		if err != nil {
			return nil, err
		}
		return &sexpPoint2{p: n}, nil
	case *sexpPoint3:
		n, err := v.p.Normalize(b.opts()...)
		if err != nil {
			return nil, err
		}
		return &sexpPoint3{p: n}, nil
	case *sexpTriangle:
		n, err := geom.TriangleNormal(v.t, b.opts()...)
		if err != nil {
			return nil, err
		}
		return &sexpPoint3{p: n}, nil
	}
	return nil, fmt.Errorf("expected vector or triangle, got %s", describe(args[0]))
}

// (dot a b)
func queryDot(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpPoint2:
		q, err := toPoint2(args[1])
		if err != nil {
			return nil, err
		}
		return floatSexp(v.p.Dot(q)), nil
	case *sexpPoint3:
		q, err := toPoint3(args[1])
		if err != nil {
			return nil, err
		}
		return floatSexp(v.p.Dot(q)), nil
	}
	return nil, fmt.Errorf("expected vector, got %s", describe(args[0]))
}

// (cross a b) -> vector in 3D, scalar z component in 2D
func queryCross(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpPoint2:
		q, err := toPoint2(args[1])
		if err != nil {
			return nil, err
		}
		return floatSexp(v.p.Cross(q)), nil
	case *sexpPoint3:
		q, err := toPoint3(args[1])
		if err != nil {
			return nil, err
		}
		return &sexpPoint3{p: geom.Cross(v.p, q)}, nil
	}
	return nil, fmt.Errorf("expected vector, got %s", describe(args[0]))
}

// (parallel plane plane)
func queryParallel(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	p1, err := toPlane(args[0])
	if err != nil {
		return nil, err
	}
	p2, err := toPlane(args[1])
	if err != nil {
		return nil, err
	}
	return boolSexp(p1.IsParallelTo(p2, b.opts()...)), nil
}

// (angle a b) -> radians between two vectors, or the dihedral angle of two
// planes in [0, π/2]
func queryAngle(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
	switch v := args[0].(type) {
	case *sexpPoint2:
		q, err := toPoint2(args[1])
		if err != nil {
			return nil, err
		}
		return floatSexp(geom.Angle2(v.p, q)), nil
	case *sexpPoint3:
		q, err := toPoint3(args[1])
		if err != nil {
			return nil, err
		}
		return floatSexp(geom.Angle(v.p, q)), nil
	case *sexpPlane:
		pl, err := toPlane(args[1])
		if err != nil {
			return nil, err
		}
		return floatSexp(v.pl.AngleTo(pl)), nil
	}
	return nil, fmt.Errorf("expected vector or plane, got %s", describe(args[0]))
}
