package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/geomkit/pkg/kernel"
)

// unitSquare is the square [0,1]x[0,1] at z=0 as two upward-facing facets.
var unitSquare = []kernel.Facet{
	{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
}

func TestFacetsToMesh(t *testing.T) {
	k := New()
	s, err := k.Facets(unitSquare)
	if err != nil {
		t.Fatalf("Facets failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 6 {
		t.Fatalf("vertex count = %d, want 6", mesh.VertexCount())
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	for i := 0; i < len(mesh.Normals); i += 3 {
		n := mesh.Normals[i : i+3]
		if n[0] != 0 || n[1] != 0 || math.Abs(float64(n[2])-1) > 1e-6 {
			t.Fatalf("normal %d = %v, want +z", i/3, n)
		}
	}
}

func TestFacetsDegenerateNormal(t *testing.T) {
	k := New()
	s, err := k.Facets([]kernel.Facet{{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}})
	if err != nil {
		t.Fatalf("Facets failed: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	for _, c := range mesh.Normals {
		if c != 0 {
			t.Fatalf("degenerate facet normals = %v, want zero", mesh.Normals)
		}
	}
}

func TestFacetsRejectNonFinite(t *testing.T) {
	k := New()
	_, err := k.Facets([]kernel.Facet{{{0, 0, 0}, {math.NaN(), 0, 0}, {0, 1, 0}}})
	if err == nil {
		t.Fatal("expected error for NaN vertex")
	}
}

func TestFacetsBoundingBox(t *testing.T) {
	k := New()
	s, err := k.Facets([]kernel.Facet{{{-1, 2, 3}, {4, -5, 6}, {0, 0, -7}}})
	if err != nil {
		t.Fatalf("Facets failed: %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-1, -5, -7} {
		t.Errorf("min = %v, want [-1 -5 -7]", min)
	}
	if max != [3]float64{4, 2, 6} {
		t.Errorf("max = %v, want [4 2 6]", max)
	}
}

func TestRod(t *testing.T) {
	k := New().WithMeshCells(64)
	rod, err := k.Rod([3]float64{0, 0, 0}, [3]float64{10, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Rod failed: %v", err)
	}

	min, max := rod.BoundingBox()
	const tol = 0.01
	expectMin := [3]float64{0, -1, -1}
	expectMax := [3]float64{10, 1, 1}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}

	mesh, err := k.ToMesh(rod)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("rod mesh is empty")
	}
	t.Logf("rod triangle count: %d", mesh.TriangleCount())
}

func TestRodVertical(t *testing.T) {
	k := New()
	rod, err := k.Rod([3]float64{2, 3, 0}, [3]float64{2, 3, 8}, 0.5)
	if err != nil {
		t.Fatalf("Rod failed: %v", err)
	}
	min, max := rod.BoundingBox()
	const tol = 0.01
	if math.Abs(min[2]) > tol || math.Abs(max[2]-8) > tol {
		t.Errorf("z extent = [%f, %f], expected [0, 8]", min[2], max[2])
	}
	if math.Abs(min[0]-1.5) > tol || math.Abs(max[0]-2.5) > tol {
		t.Errorf("x extent = [%f, %f], expected [1.5, 2.5]", min[0], max[0])
	}
}

func TestRodErrors(t *testing.T) {
	k := New()
	if _, err := k.Rod([3]float64{1, 1, 1}, [3]float64{1, 1, 1}, 1); err == nil {
		t.Error("expected error for zero-length rod")
	}
	if _, err := k.Rod([3]float64{0, 0, 0}, [3]float64{1, 0, 0}, 0); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := k.Rod([3]float64{0, 0, 0}, [3]float64{math.Inf(1), 0, 0}, 1); err == nil {
		t.Error("expected error for infinite endpoint")
	}
}

func TestUnion(t *testing.T) {
	k := New().WithMeshCells(48)
	square, err := k.Facets(unitSquare)
	if err != nil {
		t.Fatalf("Facets failed: %v", err)
	}
	rod, err := k.Rod([3]float64{0, 0, 0}, [3]float64{0, 0, 5}, 0.25)
	if err != nil {
		t.Fatalf("Rod failed: %v", err)
	}
	u := k.Union(square, rod)

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() <= 2 {
		t.Fatalf("union should contain the rod facets, got %d triangles", mesh.TriangleCount())
	}

	min, max := u.BoundingBox()
	if min[2] < -0.01 || max[2] < 4.99 || max[0] < 1 {
		t.Errorf("union bounds = %v %v", min, max)
	}
}

func TestWriteSTL(t *testing.T) {
	k := New()
	s, err := k.Facets(unitSquare)
	if err != nil {
		t.Fatalf("Facets failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "square.stl")
	if err := k.WriteSTL(s, path); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("STL file is empty")
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	k := New()
	s, _ := k.Facets(nil)
	if err := k.WriteSTL(s, filepath.Join(t.TempDir(), "empty.stl")); err == nil {
		t.Fatal("expected error writing an empty solid")
	}
}
