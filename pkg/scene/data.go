package scene

import (
	"github.com/chazu/geomkit/pkg/geom"
)

// ---------------------------------------------------------------------------
// Points and segments
// ---------------------------------------------------------------------------

// Point2Data is a point in the plane.
type Point2Data struct {
	Point geom.Point2[float64] `json:"point" yaml:"point"`
}

func (Point2Data) nodeData() {}

// Point3Data is a point in space.
type Point3Data struct {
	Point geom.Point3[float64] `json:"point" yaml:"point"`
}

func (Point3Data) nodeData() {}

// Segment2Data is a segment in the plane.
type Segment2Data struct {
	Segment geom.Segment2[float64] `json:"segment" yaml:"segment"`
}

func (Segment2Data) nodeData() {}

// Segment3Data is a segment in space.
type Segment3Data struct {
	Segment geom.Segment3[float64] `json:"segment" yaml:"segment"`
}

func (Segment3Data) nodeData() {}

// ---------------------------------------------------------------------------
// Plane
// ---------------------------------------------------------------------------

// PlaneData stores a plane by its reference point and unit normal.
type PlaneData struct {
	Point  geom.Point3[float64] `json:"point" yaml:"point"`
	Normal geom.Point3[float64] `json:"normal" yaml:"normal"`
}

func (PlaneData) nodeData() {}

// NewPlaneData captures pl.
func NewPlaneData(pl geom.Plane[float64]) PlaneData {
	return PlaneData{Point: pl.Point(), Normal: pl.Normal()}
}

// Plane rebuilds the plane. It fails if the stored normal is degenerate.
func (d PlaneData) Plane(opts ...geom.Option) (geom.Plane[float64], error) {
	return geom.NewPlane(d.Point, d.Normal, opts...)
}

// ---------------------------------------------------------------------------
// Triangles and surfaces
// ---------------------------------------------------------------------------

// TriangleData is a single triangle in space.
type TriangleData struct {
	Triangle geom.Simplex3[float64] `json:"triangle" yaml:"triangle"`
}

func (TriangleData) nodeData() {}

// SurfaceData is a triangulated surface in space.
type SurfaceData struct {
	Surface geom.Surface3[float64] `json:"surface" yaml:"surface"`
}

func (SurfaceData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping of scene nodes.
// Created by the (group ...) Lisp form.
type GroupData struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Query
// ---------------------------------------------------------------------------

// QueryData records the result of a query evaluated by the program, created
// by the (report ...) Lisp form. Value holds the Go value of the result: a
// geom point or segment, a bool, a float64, a string, or nil when the query
// had no result.
type QueryData struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

func (QueryData) nodeData() {}
