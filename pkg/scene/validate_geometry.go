package scene

import (
	"fmt"
	"math"

	"github.com/chazu/geomkit/pkg/geom"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// normalTolerance bounds how far a stored plane normal may stray from unit
// length.
const normalTolerance = 1e-6

// validateGeometry runs all Tier 2 geometric checks using the scene
// tolerance. Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	opts := s.Options()
	for _, node := range s.Ordered() {
		e, w := validateNodeGeometry(node, opts)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}

	return errs, warnings
}

func validateNodeGeometry(node *Node, opts []geom.Option) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	warn := func(format string, args ...any) {
		warnings = append(warnings, ValidationWarning{
			NodeID:  node.ID,
			Message: fmt.Sprintf(format, args...),
		})
	}

	switch d := node.Data.(type) {
	case Point2Data:
		if !finite(d.Point[:]...) {
			fail("point %s has non-finite coordinates", d.Point)
		}
	case Point3Data:
		if !finite(d.Point[:]...) {
			fail("point %s has non-finite coordinates", d.Point)
		}
	case Segment2Data:
		if !finite(d.Segment.Start[0], d.Segment.Start[1], d.Segment.End[0], d.Segment.End[1]) {
			fail("segment %s has non-finite coordinates", d.Segment)
		} else if d.Segment.IsDegenerate(opts...) {
			warn("segment %s has zero length", d.Segment)
		}
	case Segment3Data:
		if !finite(append(d.Segment.Start[:], d.Segment.End[:]...)...) {
			fail("segment %s has non-finite coordinates", d.Segment)
		} else if d.Segment.IsDegenerate(opts...) {
			warn("segment %s has zero length", d.Segment)
		}
	case PlaneData:
		if !finite(append(d.Point[:], d.Normal[:]...)...) {
			fail("plane has non-finite point or normal")
		} else if m := d.Normal.Magnitude(); math.Abs(m-1) > normalTolerance {
			fail("plane normal %s has length %.6g, must be unit length", d.Normal, m)
		}
	case TriangleData:
		e, w := validateTriangle(d.Triangle, opts)
		for _, msg := range e {
			fail("triangle %s", msg)
		}
		for _, msg := range w {
			warn("triangle %s", msg)
		}
	case SurfaceData:
		if d.Surface.NumFacets() == 0 {
			warn("surface has no facets")
		}
		for i, f := range d.Surface.Facets {
			e, w := validateTriangle(f, opts)
			for _, msg := range e {
				fail("facet %d %s", i, msg)
			}
			for _, msg := range w {
				warn("facet %d %s", i, msg)
			}
		}
	case GroupData:
		if len(node.Children) == 0 {
			warn("group %q is empty", node.Label())
		}
	}

	return errs, warnings
}

// validateTriangle returns error and warning messages for a single simplex.
func validateTriangle(t geom.Simplex3[float64], opts []geom.Option) (errs, warnings []string) {
	if len(t.Vertices) != 3 {
		return []string{fmt.Sprintf("has %d vertices, want 3", len(t.Vertices))}, nil
	}
	for _, v := range t.Vertices {
		if !finite(v[:]...) {
			return []string{"has non-finite vertices"}, nil
		}
	}
	if _, err := geom.TriangleNormal(t, opts...); err != nil {
		warnings = append(warnings, "has zero area")
	}
	return nil, warnings
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
