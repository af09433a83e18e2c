package intersect

import (
	"math"

	"github.com/chazu/geomkit/pkg/geom"
)

// Orientation is the turn direction of an ordered triple of 2D points.
type Orientation int

const (
	Collinear Orientation = iota
	CounterClockwise
	Clockwise
)

var orientationNames = [...]string{
	Collinear:        "collinear",
	CounterClockwise: "counterclockwise",
	Clockwise:        "clockwise",
}

func (o Orientation) String() string {
	if o < 0 || int(o) >= len(orientationNames) {
		return "unknown"
	}
	return orientationNames[o]
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Orient classifies the triple (p1, p2, p3) by the sign of
//
//	val = (p2.y-p1.y)(p3.x-p2.x) - (p2.x-p1.x)(p3.y-p2.y)
//
// |val| below the tolerance is Collinear, a positive val CounterClockwise and
// a negative val Clockwise. The value is computed in float64 so integer
// coordinates cannot overflow. Orient is total: coincident points are
// Collinear.
func Orient[T geom.Number](p1, p2, p3 geom.Point2[T], opts ...geom.Option) Orientation {
	a, b, c := p1.Float64(), p2.Float64(), p3.Float64()
	val := (b[1]-a[1])*(c[0]-b[0]) - (b[0]-a[0])*(c[1]-b[1])
	switch {
	case nearZero(val, geom.Epsilon(opts...)):
		return Collinear
	case val > 0:
		return CounterClockwise
	default:
		return Clockwise
	}
}

// OnSegment reports whether q lies inside the inclusive axis-aligned
// bounding box of p and r. It is meant to be called once p, q and r are
// known to be collinear.
func OnSegment[T geom.Number](p, q, r geom.Point2[T]) bool {
	for i := range q {
		if q[i] < min(p[i], r[i]) || q[i] > max(p[i], r[i]) {
			return false
		}
	}
	return true
}

func nearZero(v, eps float64) bool {
	return math.Abs(v) < eps || v == 0
}
