package geom

import (
	"fmt"
	"slices"
)

// Surface is a (K-1)-dimensional manifold in K-dimensional space made of
// simplex facets. In space this is a triangle mesh.
type Surface[V Vector[V]] struct {
	Facets []Simplex[V] `json:"facets"`
}

// Surface3 is a triangulated surface in space.
type Surface3[T Number] = Surface[Point3[T]]

// NewSurface returns a surface holding the given facets.
func NewSurface[V Vector[V]](facets ...Simplex[V]) Surface[V] {
	return Surface[V]{Facets: slices.Clone(facets)}
}

// AddFacet appends a facet.
func (s *Surface[V]) AddFacet(f Simplex[V]) {
	s.Facets = append(s.Facets, f)
}

// NumFacets returns the number of facets.
func (s Surface[V]) NumFacets() int {
	return len(s.Facets)
}

// Centroid returns the mean of all facet vertices, counting shared vertices
// once per facet. An empty surface has the zero point as centroid.
func (s Surface[V]) Centroid() V {
	var all []V
	for _, f := range s.Facets {
		all = append(all, f.Vertices...)
	}
	if len(all) == 0 {
		var zero V
		return zero
	}
	return all[0].Mean(all[1:]...)
}

func (s Surface[V]) String() string {
	return fmt.Sprintf("Surface with %d facets", len(s.Facets))
}

// SurfaceArea returns the summed area of all triangles of s.
func SurfaceArea[T Number](s Surface3[T]) float64 {
	var total float64
	for _, f := range s.Facets {
		total += TriangleArea(f)
	}
	return total
}
