package geom

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Plane is a plane in space given by a point on it and a unit normal. The
// plane equation is normal · (p - point) = 0.
//
// The zero Plane has no normal and is not a valid plane; build planes with
// NewPlane or NewPlaneFromPoints.
type Plane[T Number] struct {
	point  Point3[T]
	normal Point3[float64]
}

// NewPlane builds the plane through point with the given normal. The normal
// is normalized; a normal shorter than the tolerance is rejected with an
// error matching ErrDegenerateInput.
func NewPlane[T Number](point, normal Point3[T], opts ...Option) (Plane[T], error) {
	n, err := normal.Normalize(opts...)
	if err != nil {
		return Plane[T]{}, errors.Wrapf(err, "plane through %s with normal %s", point, normal)
	}
	return Plane[T]{point: point, normal: n}, nil
}

// NewPlaneFromPoints builds the plane through three points. The normal is
// (p2-p1) × (p3-p1), so the points must not be collinear; collinear points
// produce an error matching ErrDegenerateInput.
func NewPlaneFromPoints[T Number](p1, p2, p3 Point3[T], opts ...Option) (Plane[T], error) {
	a, b, c := p1.Float64(), p2.Float64(), p3.Float64()
	n, err := b.Sub(a).Cross(c.Sub(a)).Normalize(opts...)
	if err != nil {
		return Plane[T]{}, errors.Wrapf(err, "plane through %s, %s, %s: points are collinear", p1, p2, p3)
	}
	return Plane[T]{point: p1, normal: n}, nil
}

// Point returns the reference point of the plane.
func (pl Plane[T]) Point() Point3[T] { return pl.point }

// Normal returns the unit normal of the plane.
func (pl Plane[T]) Normal() Point3[float64] { return pl.normal }

// SignedDistance returns normal · (p - point). The sign tells which side of
// the plane p lies on; positive is the side the normal points to.
func (pl Plane[T]) SignedDistance(p Point3[T]) float64 {
	return pl.normal.Dot(p.Float64().Sub(pl.point.Float64()))
}

// ContainsPoint reports whether p lies on the plane within the tolerance.
func (pl Plane[T]) ContainsPoint(p Point3[T], opts ...Option) bool {
	d, eps := math.Abs(pl.SignedDistance(p)), Epsilon(opts...)
	return d < eps || d == 0
}

// Equation returns the coefficients of ax + by + cz + d = 0.
func (pl Plane[T]) Equation() (a, b, c, d float64) {
	n := pl.normal
	return n[0], n[1], n[2], -n.Dot(pl.point.Float64())
}

// IsParallelTo reports whether the normals of both planes are parallel or
// anti-parallel within the tolerance.
func (pl Plane[T]) IsParallelTo(other Plane[T], opts ...Option) bool {
	dot := math.Abs(pl.normal.Dot(other.normal))
	diff := math.Abs(dot - 1)
	return diff < Epsilon(opts...) || diff == 0
}

// IsSameAs reports whether both planes describe the same set of points.
func (pl Plane[T]) IsSameAs(other Plane[T], opts ...Option) bool {
	return pl.IsParallelTo(other, opts...) && pl.ContainsPoint(other.point, opts...)
}

// AngleTo returns the dihedral angle between the planes in radians, in
// [0, π/2].
func (pl Plane[T]) AngleTo(other Plane[T]) float64 {
	a := Angle(pl.normal, other.normal)
	if a > math.Pi/2 {
		a = math.Pi - a
	}
	return a
}

func (pl Plane[T]) String() string {
	a, b, c, d := pl.Equation()
	return fmt.Sprintf("Plane: %gx + %gy + %gz + %g = 0", a, b, c, d)
}
