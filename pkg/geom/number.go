package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of coordinate types a point can be built from.
type Number interface {
	constraints.Integer | constraints.Float
}

// FromFloat64 converts f to the coordinate type T. Integer coordinate types
// round to the nearest representable value instead of truncating.
func FromFloat64[T Number](f float64) T {
	if isIntegral[T]() {
		return T(math.Round(f))
	}
	return T(f)
}

func isIntegral[T Number]() bool {
	var one T = 1
	return one/2 == 0
}
