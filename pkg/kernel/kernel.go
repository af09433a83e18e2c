// Package kernel defines the abstract geometry kernel interface.
// An implementation turns scene geometry into renderable triangle meshes
// and writes them out as STL. The abstraction keeps the sdfx backend out
// of the scene and tessellation code.
package kernel

// Facet is a triangle given by its three vertices. The winding order
// determines the facet normal (counterclockwise seen from the front).
type Facet [3][3]float64

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Facets(facets []Facet) (Solid, error)
	Rod(a, b [3]float64, radius float64) (Solid, error)

	// Combination
	Union(a, b Solid) Solid

	// Output
	ToMesh(s Solid) (*Mesh, error)
	WriteSTL(s Solid, path string) error
}
