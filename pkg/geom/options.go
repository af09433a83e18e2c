package geom

import "math"

// DefaultEpsilon is the tolerance used when no WithEpsilon option is given.
const DefaultEpsilon = 1e-9

type options struct {
	epsilon float64
}

// Option configures a tolerance-sensitive operation.
type Option func(*options)

// WithEpsilon sets the tolerance below which a magnitude, distance or
// signed area is treated as zero. Zero requests exact comparisons; negative
// and NaN values are ignored.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		if eps >= 0 && !math.IsNaN(eps) {
			o.epsilon = eps
		}
	}
}

// Epsilon resolves the tolerance selected by opts.
func Epsilon(opts ...Option) float64 {
	o := options{epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(&o)
	}
	return o.epsilon
}
