package geom

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// R2 converts p to an r2.Point.
func (p Point2[T]) R2() r2.Point {
	return r2.Point{X: float64(p[0]), Y: float64(p[1])}
}

// R3 converts p to an r3.Vector.
func (p Point3[T]) R3() r3.Vector {
	return r3.Vector{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// Angle returns the angle between a and b in radians, in [0, π].
// The angle involving a zero vector is zero.
func Angle[T Number](a, b Point3[T]) float64 {
	return a.R3().Angle(b.R3()).Radians()
}

// Angle2 returns the unsigned angle between a and b in radians, in [0, π].
func Angle2[T Number](a, b Point2[T]) float64 {
	u, v := a.R2(), b.R2()
	return math.Atan2(math.Abs(u.Cross(v)), u.Dot(v))
}
