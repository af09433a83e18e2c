package geom

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDegenerateInput is matched by every error caused by a vector whose
// magnitude is indistinguishable from zero.
var ErrDegenerateInput = errors.New("degenerate input")

// DegenerateInputError reports a zero or near-zero vector where a direction
// was required, e.g. normalizing a zero vector or deriving a plane normal
// from collinear points.
//
// errors.Is(err, ErrDegenerateInput) reports true for it.
type DegenerateInputError struct {
	Op        string
	Magnitude float64
	Epsilon   float64
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s: degenerate input: magnitude %g below tolerance %g", e.Op, e.Magnitude, e.Epsilon)
}

func (e *DegenerateInputError) Unwrap() error { return ErrDegenerateInput }

// VertexCountError indicates a simplex built from the wrong number of
// vertices for its dimension.
type VertexCountError struct {
	Expected int
	Actual   int
}

func (e *VertexCountError) Error() string {
	return fmt.Sprintf("simplex: expected %d vertices, got %d", e.Expected, e.Actual)
}
