package geom

import (
	"fmt"
	"math"
)

// Vector is the constraint satisfied by Point2 and Point3. It lets segments,
// simplices and surfaces be written once for both dimensions.
type Vector[V any] interface {
	comparable
	Add(V) V
	Sub(V) V
	Div(n int) V
	Distance(V) float64
	Mean(...V) V
	Magnitude() float64
	Dim() int
	String() string
}

// Point2 is a point or displacement vector in the plane.
type Point2[T Number] [2]T

// Point3 is a point or displacement vector in space.
type Point3[T Number] [3]T

// Pt2 is a convenience function to create a Point2.
func Pt2[T Number](x, y T) Point2[T] {
	return Point2[T]{x, y}
}

// Pt3 is a convenience function to create a Point3.
func Pt3[T Number](x, y, z T) Point3[T] {
	return Point3[T]{x, y, z}
}

// ---------------------------------------------------------------------------
// Point2
// ---------------------------------------------------------------------------

func (p Point2[T]) X() T { return p[0] }
func (p Point2[T]) Y() T { return p[1] }

// Dim returns 2.
func (p Point2[T]) Dim() int { return 2 }

// Add returns the component-wise sum.
func (p Point2[T]) Add(q Point2[T]) Point2[T] {
	return Point2[T]{p[0] + q[0], p[1] + q[1]}
}

// Sub returns the component-wise difference p - q.
func (p Point2[T]) Sub(q Point2[T]) Point2[T] {
	return Point2[T]{p[0] - q[0], p[1] - q[1]}
}

// Scale multiplies every coordinate by s.
func (p Point2[T]) Scale(s T) Point2[T] {
	return Point2[T]{p[0] * s, p[1] * s}
}

// Div divides every coordinate by n. Integer coordinates truncate.
func (p Point2[T]) Div(n int) Point2[T] {
	d := T(n)
	return Point2[T]{p[0] / d, p[1] / d}
}

// Dot returns the dot product of p and q.
func (p Point2[T]) Dot(q Point2[T]) T {
	return p[0]*q[0] + p[1]*q[1]
}

// Cross returns the z component of the 3D cross product of p and q
// (the signed area of the parallelogram they span).
func (p Point2[T]) Cross(q Point2[T]) T {
	return p[0]*q[1] - p[1]*q[0]
}

// Magnitude returns the Euclidean norm, computed in float64.
func (p Point2[T]) Magnitude() float64 {
	x, y := float64(p[0]), float64(p[1])
	return math.Sqrt(x*x + y*y)
}

// Distance returns |p - q|. The difference is taken in float64 so unsigned
// and narrow integer coordinates neither wrap nor overflow.
func (p Point2[T]) Distance(q Point2[T]) float64 {
	return p.Float64().Sub(q.Float64()).Magnitude()
}

// Mean returns the average of p and others, computed in float64 and rounded
// to the nearest value for integer T.
func (p Point2[T]) Mean(others ...Point2[T]) Point2[T] {
	sum := p.Float64()
	for _, q := range others {
		sum = sum.Add(q.Float64())
	}
	n := float64(len(others) + 1)
	return Point2From[T](Point2[float64]{sum[0] / n, sum[1] / n})
}

// Normalize returns p scaled to unit length. It fails with a
// *DegenerateInputError when the magnitude is below the tolerance.
func (p Point2[T]) Normalize(opts ...Option) (Point2[float64], error) {
	m, eps := p.Magnitude(), Epsilon(opts...)
	if m < eps || m == 0 {
		return Point2[float64]{}, &DegenerateInputError{Op: "normalize", Magnitude: m, Epsilon: eps}
	}
	f := p.Float64()
	return Point2[float64]{f[0] / m, f[1] / m}, nil
}

// Float64 converts p to float64 coordinates.
func (p Point2[T]) Float64() Point2[float64] {
	return Point2[float64]{float64(p[0]), float64(p[1])}
}

// ApproxEqual reports whether every coordinate of p and q differs by less
// than the tolerance.
func (p Point2[T]) ApproxEqual(q Point2[T], opts ...Option) bool {
	eps := Epsilon(opts...)
	for i := range p {
		if math.Abs(float64(p[i])-float64(q[i])) >= eps && p[i] != q[i] {
			return false
		}
	}
	return true
}

// Equal reports whether p and q have identical coordinates.
func (p Point2[T]) Equal(q Point2[T]) bool { return p == q }

func (p Point2[T]) String() string {
	return fmt.Sprintf("(%v, %v)", p[0], p[1])
}

// Point2From converts float64 coordinates to T, rounding for integer types.
func Point2From[T Number](p Point2[float64]) Point2[T] {
	return Point2[T]{FromFloat64[T](p[0]), FromFloat64[T](p[1])}
}

// ---------------------------------------------------------------------------
// Point3
// ---------------------------------------------------------------------------

func (p Point3[T]) X() T { return p[0] }
func (p Point3[T]) Y() T { return p[1] }
func (p Point3[T]) Z() T { return p[2] }

// Dim returns 3.
func (p Point3[T]) Dim() int { return 3 }

// Add returns the component-wise sum.
func (p Point3[T]) Add(q Point3[T]) Point3[T] {
	return Point3[T]{p[0] + q[0], p[1] + q[1], p[2] + q[2]}
}

// Sub returns the component-wise difference p - q.
func (p Point3[T]) Sub(q Point3[T]) Point3[T] {
	return Point3[T]{p[0] - q[0], p[1] - q[1], p[2] - q[2]}
}

// Scale multiplies every coordinate by s.
func (p Point3[T]) Scale(s T) Point3[T] {
	return Point3[T]{p[0] * s, p[1] * s, p[2] * s}
}

// Div divides every coordinate by n. Integer coordinates truncate.
func (p Point3[T]) Div(n int) Point3[T] {
	d := T(n)
	return Point3[T]{p[0] / d, p[1] / d, p[2] / d}
}

// Dot returns the dot product of p and q.
func (p Point3[T]) Dot(q Point3[T]) T {
	return p[0]*q[0] + p[1]*q[1] + p[2]*q[2]
}

// Cross returns the cross product p × q.
func (p Point3[T]) Cross(q Point3[T]) Point3[T] {
	return Point3[T]{
		p[1]*q[2] - p[2]*q[1],
		p[2]*q[0] - p[0]*q[2],
		p[0]*q[1] - p[1]*q[0],
	}
}

// Magnitude returns the Euclidean norm, computed in float64.
func (p Point3[T]) Magnitude() float64 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	return math.Sqrt(x*x + y*y + z*z)
}

// Distance returns |p - q|, with the difference taken in float64.
func (p Point3[T]) Distance(q Point3[T]) float64 {
	return p.Float64().Sub(q.Float64()).Magnitude()
}

// Mean returns the average of p and others, computed in float64 and rounded
// to the nearest value for integer T.
func (p Point3[T]) Mean(others ...Point3[T]) Point3[T] {
	sum := p.Float64()
	for _, q := range others {
		sum = sum.Add(q.Float64())
	}
	n := float64(len(others) + 1)
	return Point3From[T](Point3[float64]{sum[0] / n, sum[1] / n, sum[2] / n})
}

// Normalize returns p scaled to unit length. It fails with a
// *DegenerateInputError when the magnitude is below the tolerance.
func (p Point3[T]) Normalize(opts ...Option) (Point3[float64], error) {
	m, eps := p.Magnitude(), Epsilon(opts...)
	if m < eps || m == 0 {
		return Point3[float64]{}, &DegenerateInputError{Op: "normalize", Magnitude: m, Epsilon: eps}
	}
	f := p.Float64()
	return Point3[float64]{f[0] / m, f[1] / m, f[2] / m}, nil
}

// Float64 converts p to float64 coordinates.
func (p Point3[T]) Float64() Point3[float64] {
	return Point3[float64]{float64(p[0]), float64(p[1]), float64(p[2])}
}

// ApproxEqual reports whether every coordinate of p and q differs by less
// than the tolerance.
func (p Point3[T]) ApproxEqual(q Point3[T], opts ...Option) bool {
	eps := Epsilon(opts...)
	for i := range p {
		if math.Abs(float64(p[i])-float64(q[i])) >= eps && p[i] != q[i] {
			return false
		}
	}
	return true
}

// Equal reports whether p and q have identical coordinates.
func (p Point3[T]) Equal(q Point3[T]) bool { return p == q }

func (p Point3[T]) String() string {
	return fmt.Sprintf("(%v, %v, %v)", p[0], p[1], p[2])
}

// Point3From converts float64 coordinates to T, rounding for integer types.
func Point3From[T Number](p Point3[float64]) Point3[T] {
	return Point3[T]{FromFloat64[T](p[0]), FromFloat64[T](p[1]), FromFloat64[T](p[2])}
}

// Cross returns the cross product a × b.
func Cross[T Number](a, b Point3[T]) Point3[T] {
	return a.Cross(b)
}
