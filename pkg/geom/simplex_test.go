package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimplexVertexCount(t *testing.T) {
	_, err := NewSimplex(Pt3(0, 0, 0), Pt3(1, 0, 0))
	require.Error(t, err)
	var vc *VertexCountError
	require.ErrorAs(t, err, &vc)
	assert.Equal(t, 3, vc.Expected)
	assert.Equal(t, 2, vc.Actual)

	s, err := NewSimplex(Pt2(0, 0), Pt2(4, 2))
	require.NoError(t, err)
	assert.Equal(t, Pt2(2, 1), s.Centroid())
}

func TestNewSimplexCopiesVertices(t *testing.T) {
	verts := []Point3[float64]{Pt3(0.0, 0, 0), Pt3(1.0, 0, 0), Pt3(0.0, 1, 0)}
	s, err := NewSimplex(verts...)
	require.NoError(t, err)
	verts[0] = Pt3(9.0, 9, 9)
	assert.Equal(t, Pt3(0.0, 0, 0), s.Vertices[0])
}

func TestTriangleCentroidAreaNormal(t *testing.T) {
	tri, err := NewSimplex(Pt3(0.0, 0, 0), Pt3(3.0, 0, 0), Pt3(0.0, 3, 0))
	require.NoError(t, err)

	assert.Equal(t, Pt3(1.0, 1, 0), tri.Centroid())
	assert.Equal(t, 4.5, TriangleArea(tri))

	n, err := TriangleNormal(tri)
	require.NoError(t, err)
	assert.Equal(t, Pt3(0.0, 0, 1), n)
}

func TestDegenerateTriangleNormal(t *testing.T) {
	tri, err := NewSimplex(Pt3(0, 0, 0), Pt3(1, 1, 1), Pt3(2, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 0.0, TriangleArea(tri))

	_, err = TriangleNormal(tri)
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestSurface(t *testing.T) {
	var s Surface3[float64]
	assert.Equal(t, 0, s.NumFacets())
	assert.Equal(t, Point3[float64]{}, s.Centroid())
	assert.Equal(t, "Surface with 0 facets", s.String())

	t1, err := NewSimplex(Pt3(0.0, 0, 0), Pt3(1.0, 0, 0), Pt3(0.0, 1, 0))
	require.NoError(t, err)
	t2, err := NewSimplex(Pt3(1.0, 0, 0), Pt3(1.0, 1, 0), Pt3(0.0, 1, 0))
	require.NoError(t, err)

	s.AddFacet(t1)
	s.AddFacet(t2)
	assert.Equal(t, 2, s.NumFacets())
	assert.Equal(t, "Surface with 2 facets", s.String())
	assert.InDelta(t, 1.0, SurfaceArea(s), 1e-12)

	want := Pt3(1.0/2, 1.0/2, 0)
	if diff := cmp.Diff(want, s.Centroid()); diff != "" {
		t.Errorf("centroid mismatch (-want +got):\n%s", diff)
	}

	same := NewSurface(t1, t2)
	assert.True(t, cmp.Equal(s, same))
}

func TestAngleMatchesR3(t *testing.T) {
	a := Pt3(1.0, 0, 0)
	b := Pt3(1.0, 1, 0)
	assert.InDelta(t, math.Pi/4, Angle(a, b), 1e-12)

	v := a.R3().Cross(b.R3())
	assert.Equal(t, Cross(a, b), Pt3(v.X, v.Y, v.Z))
	assert.Equal(t, 0.0, Angle(a, Pt3(0.0, 0, 0)))
}

func TestAngle2(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2[int]
		want float64
	}{
		{"same direction", Pt2(2, 0), Pt2(5, 0), 0},
		{"right angle", Pt2(1, 0), Pt2(0, -3), math.Pi / 2},
		{"opposite", Pt2(1, 1), Pt2(-2, -2), math.Pi},
		{"diagonal", Pt2(1, 0), Pt2(1, 1), math.Pi / 4},
		{"zero vector", Pt2(0, 0), Pt2(1, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Angle2(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.want, Angle2(tt.b, tt.a), 1e-12)
		})
	}
}
