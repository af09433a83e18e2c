package engine

import (
	"time"

	"github.com/chazu/geomkit/pkg/geom"
)

type options struct {
	epsilon float64
	timeout time.Duration
}

func defaultOptions() options {
	return options{epsilon: geom.DefaultEpsilon, timeout: EvalTimeout}
}

// Option configures an Engine.
type Option func(*options)

// WithEpsilon sets the initial tolerance of every evaluation. Programs can
// still change it with (epsilon x). Negative and NaN values are ignored.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		o.epsilon = geom.Epsilon(geom.WithEpsilon(o.epsilon), geom.WithEpsilon(eps))
	}
}

// WithTimeout sets the hard limit for a single evaluation. Non-positive
// durations are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}
