package intersect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/geomkit/pkg/geom"
)

func zPlane(t *testing.T) geom.Plane[float64] {
	t.Helper()
	pl, err := geom.NewPlane(geom.Pt3(0.0, 0, 0), geom.Pt3(0.0, 0, 1))
	require.NoError(t, err)
	return pl
}

func seg3(a, b geom.Point3[float64]) geom.Segment3[float64] {
	return geom.NewSegment(a, b)
}

func TestClassifySegmentPlane(t *testing.T) {
	pl := zPlane(t)
	tests := []struct {
		name string
		seg  geom.Segment3[float64]
		want PlaneKind
	}{
		{"crossing", seg3(geom.Pt3(0.0, 0, -1), geom.Pt3(0.0, 0, 1)), SegmentCrossesPlane},
		{"parallel same side", seg3(geom.Pt3(1.0, 0, 1), geom.Pt3(2.0, 0, 1)), NoIntersection},
		{"both below", seg3(geom.Pt3(1.0, 0, -1), geom.Pt3(2.0, 0, -3)), NoIntersection},
		{"start on plane", seg3(geom.Pt3(0.0, 0, 0), geom.Pt3(1.0, 1, 1)), EndpointOnPlane},
		{"end on plane", seg3(geom.Pt3(1.0, 1, -1), geom.Pt3(3.0, 2, 0)), EndpointOnPlane},
		{"in plane", seg3(geom.Pt3(0.0, 0, 0), geom.Pt3(5.0, 3, 0)), SegmentLiesOnPlane},
		{"degenerate on plane", seg3(geom.Pt3(2.0, 2, 0), geom.Pt3(2.0, 2, 0)), SegmentLiesOnPlane},
		{"degenerate off plane", seg3(geom.Pt3(2.0, 2, 1), geom.Pt3(2.0, 2, 1)), NoIntersection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySegmentPlane(tt.seg, pl)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got != NoIntersection, SegmentPlaneIntersects(tt.seg, pl))
			assert.Equal(t, got, SegmentPlane(tt.seg, pl).Kind)
		})
	}
}

func TestSegmentPlaneCrossing(t *testing.T) {
	pl := zPlane(t)
	r := SegmentPlane(seg3(geom.Pt3(0.0, 0, -1), geom.Pt3(0.0, 0, 1)), pl)
	require.Equal(t, SegmentCrossesPlane, r.Kind)
	p, ok := r.At()
	require.True(t, ok)
	assert.True(t, p.ApproxEqual(geom.Pt3(0.0, 0, 0)))

	p, ok = SegmentPlaneIntersectionPoint(seg3(geom.Pt3(1.0, 2, 3), geom.Pt3(3.0, 4, -1)), pl)
	require.True(t, ok)
	assert.True(t, p.ApproxEqual(geom.Pt3(2.5, 3.5, 0)), "got %s", p)
	assert.InDelta(t, 0, pl.SignedDistance(p), 1e-9)
}

func TestSegmentPlaneEndpoint(t *testing.T) {
	pl := zPlane(t)
	p, ok := SegmentPlaneIntersectionPoint(seg3(geom.Pt3(0.0, 0, 0), geom.Pt3(1.0, 1, 1)), pl)
	require.True(t, ok)
	assert.Equal(t, geom.Pt3(0.0, 0, 0), p)

	p, ok = SegmentPlaneIntersectionPoint(seg3(geom.Pt3(1.0, 1, -1), geom.Pt3(3.0, 2, 0)), pl)
	require.True(t, ok)
	assert.Equal(t, geom.Pt3(3.0, 2, 0), p)
}

func TestSegmentPlaneNoPoint(t *testing.T) {
	pl := zPlane(t)

	r := SegmentPlane(seg3(geom.Pt3(1.0, 0, 1), geom.Pt3(2.0, 0, 1)), pl)
	_, ok := r.At()
	assert.False(t, ok)
	_, ok = r.Contained()
	assert.False(t, ok)
	assert.Equal(t, "no_intersection", r.String())

	in := seg3(geom.Pt3(0.0, 0, 0), geom.Pt3(5.0, 3, 0))
	r = SegmentPlane(in, pl)
	_, ok = r.At()
	assert.False(t, ok)
	s, ok := r.Contained()
	require.True(t, ok)
	assert.Equal(t, in, s)
}

func TestSegmentPlaneTolerance(t *testing.T) {
	pl := zPlane(t)
	s := seg3(geom.Pt3(0.0, 0, 1e-4), geom.Pt3(1.0, 0, 5))
	assert.Equal(t, NoIntersection, ClassifySegmentPlane(s, pl))
	assert.Equal(t, EndpointOnPlane, ClassifySegmentPlane(s, pl, geom.WithEpsilon(1e-3)))
}

func TestSegmentPlaneCrossingPointIsOnSegment(t *testing.T) {
	pl, err := geom.NewPlaneFromPoints(geom.Pt3(1.0, 0, 0), geom.Pt3(0.0, 1, 0), geom.Pt3(0.0, 0, 1))
	require.NoError(t, err)

	s := seg3(geom.Pt3(0.0, 0, 0), geom.Pt3(2.0, 2, 2))
	p, ok := SegmentPlaneIntersectionPoint(s, pl)
	require.True(t, ok)
	third := 1.0 / 3
	assert.True(t, p.ApproxEqual(geom.Pt3(third, third, third)), "got %s", p)
	assert.InDelta(t, s.Length(), geom.NewSegment(s.Start, p).Length()+geom.NewSegment(p, s.End).Length(), 1e-9)
}

func TestSegmentPlaneIntegerCoordinates(t *testing.T) {
	pl, err := geom.NewPlane(geom.Pt3(0, 0, 2), geom.Pt3(0, 0, 1))
	require.NoError(t, err)
	p, ok := SegmentPlaneIntersectionPoint(geom.NewSegment(geom.Pt3(0, 0, 0), geom.Pt3(4, 6, 4)), pl)
	require.True(t, ok)
	assert.Equal(t, geom.Pt3(2, 3, 2), p)
}

func TestPlaneRoundTripDistance(t *testing.T) {
	pts := [][3]geom.Point3[float64]{
		{geom.Pt3(1.0, 0, 0), geom.Pt3(0.0, 1, 0), geom.Pt3(0.0, 0, 1)},
		{geom.Pt3(3.5, -2, 7), geom.Pt3(-1.0, 4, 2), geom.Pt3(0.25, 0.5, -9)},
	}
	for _, tri := range pts {
		pl, err := geom.NewPlaneFromPoints(tri[0], tri[1], tri[2])
		require.NoError(t, err)
		assert.InDelta(t, 0, pl.SignedDistance(pl.Point()), 1e-9)
		for _, p := range tri {
			assert.True(t, pl.ContainsPoint(p, geom.WithEpsilon(1e-9)))
		}
	}
}
