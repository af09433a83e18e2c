package geom

import (
	"slices"

	"github.com/pkg/errors"
)

// Simplex is a (K-1)-simplex in K-dimensional space: a segment in the plane
// or a triangle in space. It always holds exactly K vertices when built with
// NewSimplex.
type Simplex[V Vector[V]] struct {
	Vertices []V `json:"vertices"`
}

// Simplex2 is a segment-shaped simplex in the plane.
type Simplex2[T Number] = Simplex[Point2[T]]

// Simplex3 is a triangle in space.
type Simplex3[T Number] = Simplex[Point3[T]]

// NewSimplex builds a simplex from exactly K vertices, where K is the
// dimension of V. Any other count yields a *VertexCountError.
func NewSimplex[V Vector[V]](vertices ...V) (Simplex[V], error) {
	var zero V
	if len(vertices) != zero.Dim() {
		return Simplex[V]{}, &VertexCountError{Expected: zero.Dim(), Actual: len(vertices)}
	}
	return Simplex[V]{Vertices: slices.Clone(vertices)}, nil
}

// Centroid returns the mean of the vertices, rounded to the nearest value
// for integer coordinates.
func (s Simplex[V]) Centroid() V {
	if len(s.Vertices) == 0 {
		var zero V
		return zero
	}
	return s.Vertices[0].Mean(s.Vertices[1:]...)
}

// TriangleArea returns ½|AB × AC|. Malformed triangles have zero area.
func TriangleArea[T Number](t Simplex3[T]) float64 {
	if len(t.Vertices) != 3 {
		return 0
	}
	return 0.5 * triangleCross(t).Magnitude()
}

// TriangleNormal returns the unit normal of t following the right-hand rule
// over its vertex order. A triangle with (near) zero area has no normal and
// yields an error matching ErrDegenerateInput.
func TriangleNormal[T Number](t Simplex3[T], opts ...Option) (Point3[float64], error) {
	if len(t.Vertices) != 3 {
		return Point3[float64]{}, &VertexCountError{Expected: 3, Actual: len(t.Vertices)}
	}
	n, err := triangleCross(t).Normalize(opts...)
	if err != nil {
		return Point3[float64]{}, errors.Wrap(err, "triangle normal")
	}
	return n, nil
}

func triangleCross[T Number](t Simplex3[T]) Point3[float64] {
	a := t.Vertices[0].Float64()
	ab := t.Vertices[1].Float64().Sub(a)
	ac := t.Vertices[2].Float64().Sub(a)
	return ab.Cross(ac)
}
