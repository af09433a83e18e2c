package main

import (
	"math"
	"os"
	"testing"

	"github.com/chazu/geomkit/pkg/geom"
)

// evalFile runs an example program through the full pipeline and fails on
// any error.
func evalFile(t *testing.T, path string) EvalResult {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	result := NewApp().Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return result
}

func reportMap(result EvalResult) map[string]ReportData {
	m := make(map[string]ReportData, len(result.Reports))
	for _, r := range result.Reports {
		m[r.Label] = r
	}
	return m
}

// TestE2ECrossingExample exercises the full pipeline on 2D segment queries:
// Lisp source → engine → scene → validation → reports.
func TestE2ECrossingExample(t *testing.T) {
	result := evalFile(t, "examples/crossing.lisp")
	r := reportMap(result)

	if len(result.Reports) != 7 {
		t.Fatalf("expected 7 reports, got %d", len(result.Reports))
	}
	if r["diagonals-cross"].Value != true {
		t.Errorf("diagonals-cross = %v, want true", r["diagonals-cross"].Value)
	}
	if p, ok := r["crossing-point"].Value.(geom.Point2[float64]); !ok || !p.ApproxEqual(geom.Pt2(1.0, 1)) {
		t.Errorf("crossing-point = %v, want (1, 1)", r["crossing-point"].Value)
	}
	if r["edges-touch"].Value != false {
		t.Errorf("edges-touch = %v, want false", r["edges-touch"].Value)
	}
	if p, ok := r["corner"].Value.(geom.Point2[float64]); !ok || !p.ApproxEqual(geom.Pt2(0.0, 0)) {
		t.Errorf("corner = %v, want (0, 0)", r["corner"].Value)
	}
	if s, ok := r["overlap"].Value.(geom.Segment2[float64]); !ok ||
		!s.Start.ApproxEqual(geom.Pt2(2.0, 0)) || !s.End.ApproxEqual(geom.Pt2(4.0, 0)) {
		t.Errorf("overlap = %v, want [(2, 0) -> (4, 0)]", r["overlap"].Value)
	}
	if r["turn"].Text != "collinear" {
		t.Errorf("turn = %q, want collinear", r["turn"].Text)
	}
	if v, ok := r["rising-length"].Value.(float64); !ok || math.Abs(v-2*math.Sqrt2) > 1e-12 {
		t.Errorf("rising-length = %v", r["rising-length"].Value)
	}

	// Four named segments, no surfaces.
	if len(result.Entities) != 4 {
		t.Errorf("expected 4 entities, got %d", len(result.Entities))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestE2EPlaneExample(t *testing.T) {
	result := evalFile(t, "examples/plane.lisp")
	r := reportMap(result)

	want := map[string]string{
		"pole":   "segment_crosses_plane",
		"beam":   "no_intersection",
		"prop":   "endpoint_on_plane",
		"rail":   "segment_lies_on_plane",
		"tilted": "endpoint_on_plane",
	}
	for label, kind := range want {
		if r[label].Text != kind {
			t.Errorf("%s = %q, want %q", label, r[label].Text, kind)
		}
	}
	if p, ok := r["pole-hit"].Value.(geom.Point3[float64]); !ok || !p.ApproxEqual(geom.Pt3(1.0, 1, 0)) {
		t.Errorf("pole-hit = %v, want (1, 1, 0)", r["pole-hit"].Value)
	}
	if p, ok := r["prop-foot"].Value.(geom.Point3[float64]); !ok || p != geom.Pt3(2.0, 2, 0) {
		t.Errorf("prop-foot = %v, want (2, 2, 0)", r["prop-foot"].Value)
	}
	if r["beam-height"].Value != 2.0 {
		t.Errorf("beam-height = %v, want 2", r["beam-height"].Value)
	}

	// The plane is unbounded and has no WKT entity.
	if len(result.Entities) != 4 {
		t.Errorf("expected 4 entities, got %d", len(result.Entities))
	}
}

func TestE2EPyramidExample(t *testing.T) {
	result := evalFile(t, "examples/pyramid.lisp")
	r := reportMap(result)

	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}
	expected := map[string]int{"base": 2, "sides": 4}
	for _, m := range result.Meshes {
		tris, ok := expected[m.Name]
		if !ok {
			t.Errorf("unexpected mesh name: %q", m.Name)
			continue
		}
		if len(m.Indices)/3 != tris {
			t.Errorf("mesh %q: %d triangles, want %d", m.Name, len(m.Indices)/3, tris)
		}
		if len(m.Vertices) != len(m.Normals) {
			t.Errorf("mesh %q: vertices and normals differ in length", m.Name)
		}
		if m.Color == "" {
			t.Errorf("mesh %q: no color assigned", m.Name)
		}
	}

	if v := r["base-area"].Value.(float64); math.Abs(v-4) > 1e-12 {
		t.Errorf("base-area = %g, want 4", v)
	}
	if v := r["side-area"].Value.(float64); math.Abs(v-4*math.Sqrt(10)) > 1e-9 {
		t.Errorf("side-area = %g, want 4*sqrt(10)", v)
	}
	if r["axis-through-base"].Text != "endpoint_on_plane" {
		t.Errorf("axis-through-base = %q", r["axis-through-base"].Text)
	}
	n, ok := r["front-normal"].Value.(geom.Point3[float64])
	if !ok || math.Abs(n.Magnitude()-1) > 1e-12 || n[1] >= 0 {
		t.Errorf("front-normal = %v, want a unit vector facing -y", r["front-normal"].Value)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if result.Scene() == nil {
		t.Error("expected an empty scene")
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(defshape \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
	if result.Scene() != nil {
		t.Error("expected no scene on error")
	}
}

// TestE2ESingleTriangle ensures a minimal single-triangle source renders one mesh.
func TestE2ESingleTriangle(t *testing.T) {
	app := NewApp()
	source := `(defshape "tri" (triangle (point 0 0 0) (point 1 0 0) (point 0 1 0)))`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].Name != "tri" {
		t.Errorf("expected mesh name 'tri', got %q", result.Meshes[0].Name)
	}
}
