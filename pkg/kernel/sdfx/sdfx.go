// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/geomkit/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid is a triangle soup plus any number of signed distance fields.
// Facets are emitted as given; the fields are rendered with marching cubes.
type sdfxSolid struct {
	tris []*sdf.Triangle3
	sdfs []sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	var bb sdf.Box3
	first := true
	extend := func(b sdf.Box3) {
		if first {
			bb, first = b, false
			return
		}
		bb = bb.Extend(b)
	}
	for _, t := range s.tris {
		extend(sdf.Box3{Min: t[0], Max: t[0]})
		extend(sdf.Box3{Min: t[1], Max: t[1]})
		extend(sdf.Box3{Min: t[2], Max: t[2]})
	}
	for _, f := range s.sdfs {
		extend(f.BoundingBox())
	}
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// WithMeshCells returns a kernel that renders fields on a marching cubes
// grid with the given number of cells along the longest axis.
func (k *SdfxKernel) WithMeshCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// unwrap extracts the underlying solid from a kernel.Solid.
func unwrap(s kernel.Solid) *sdfxSolid {
	return s.(*sdfxSolid)
}

func vec(p [3]float64) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func finite(p [3]float64) bool {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Facets creates a solid from triangles. Coordinates must be finite.
func (k *SdfxKernel) Facets(facets []kernel.Facet) (kernel.Solid, error) {
	tris := make([]*sdf.Triangle3, 0, len(facets))
	for i, f := range facets {
		for _, v := range f {
			if !finite(v) {
				return nil, fmt.Errorf("sdfx: facet %d has non-finite vertex %v", i, v)
			}
		}
		tris = append(tris, &sdf.Triangle3{vec(f[0]), vec(f[1]), vec(f[2])})
	}
	return &sdfxSolid{tris: tris}, nil
}

// Rod creates a cylinder of the given radius whose axis runs from a to b.
// sdf.Cylinder3D is centered on the origin along Z, so it is tilted onto
// the a→b direction and moved to the midpoint.
func (k *SdfxKernel) Rod(a, b [3]float64, radius float64) (kernel.Solid, error) {
	if !finite(a) || !finite(b) {
		return nil, fmt.Errorf("sdfx: rod endpoints must be finite, got %v and %v", a, b)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("sdfx: rod radius must be positive, got %g", radius)
	}
	dir := vec(b).Sub(vec(a))
	length := dir.Length()
	if length == 0 {
		return nil, fmt.Errorf("sdfx: rod from %v to %v has zero length", a, b)
	}

	s, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}

	pitch := math.Acos(math.Max(-1, math.Min(1, dir.Z/length)))
	yaw := math.Atan2(dir.Y, dir.X)
	mid := vec(a).Add(vec(b)).MulScalar(0.5)
	m := sdf.Translate3d(mid).Mul(sdf.RotateZ(yaw)).Mul(sdf.RotateY(pitch))
	return &sdfxSolid{sdfs: []sdf.SDF3{sdf.Transform3D(s, m)}}, nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	out := &sdfxSolid{}
	out.tris = append(append(out.tris, sa.tris...), sb.tris...)
	out.sdfs = append(append(out.sdfs, sa.sdfs...), sb.sdfs...)
	return out
}

// triangles returns every facet of the solid, rendering fields with
// marching cubes.
func (k *SdfxKernel) triangles(s *sdfxSolid) []*sdf.Triangle3 {
	if len(s.sdfs) == 0 {
		return s.tris
	}
	renderer := render.NewMarchingCubesUniform(k.cells)
	rendered := render.ToTriangles(sdf.Union3D(s.sdfs...), renderer)
	out := make([]*sdf.Triangle3, 0, len(s.tris)+len(rendered))
	out = append(out, s.tris...)
	return append(out, rendered...)
}

// normal returns the unit facet normal, or the zero vector for a
// degenerate facet.
func normal(t *sdf.Triangle3) v3.Vec {
	if t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() == 0 {
		return v3.Vec{}
	}
	return t.Normal()
}

// ToMesh converts a solid to a flat triangle mesh with per-facet normals.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	triangles := k.triangles(unwrap(s))

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := normal(tri)
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// WriteSTL writes the solid to path as a binary STL file.
func (k *SdfxKernel) WriteSTL(s kernel.Solid, path string) error {
	triangles := k.triangles(unwrap(s))
	if len(triangles) == 0 {
		return fmt.Errorf("sdfx: nothing to write to %s", path)
	}
	if err := render.SaveSTL(path, triangles); err != nil {
		return fmt.Errorf("sdfx: write %s: %w", path, err)
	}
	return nil
}
