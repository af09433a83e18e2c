package export

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/chazu/geomkit/pkg/geom"
	"github.com/chazu/geomkit/pkg/scene"
)

// Entry is the WKT rendering of one scene node.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	WKT  string `json:"wkt" yaml:"wkt"`
}

// Geometry converts a node's payload to a go-geom geometry. It reports
// false for kinds with no bounded geometry.
func Geometry(n *scene.Node) (gogeom.T, bool, error) {
	switch d := n.Data.(type) {
	case scene.Point2Data:
		return gogeom.NewPoint(gogeom.XY).MustSetCoords(coord2(d.Point)), true, nil
	case scene.Point3Data:
		return gogeom.NewPoint(gogeom.XYZ).MustSetCoords(coord3(d.Point)), true, nil
	case scene.Segment2Data:
		return gogeom.NewLineString(gogeom.XY).MustSetCoords([]gogeom.Coord{
			coord2(d.Segment.Start), coord2(d.Segment.End),
		}), true, nil
	case scene.Segment3Data:
		return gogeom.NewLineString(gogeom.XYZ).MustSetCoords([]gogeom.Coord{
			coord3(d.Segment.Start), coord3(d.Segment.End),
		}), true, nil
	case scene.TriangleData:
		ring, err := triangleRing(d.Triangle)
		if err != nil {
			return nil, false, fmt.Errorf("export: %s: %w", n.Label(), err)
		}
		return gogeom.NewPolygon(gogeom.XYZ).MustSetCoords([][]gogeom.Coord{ring}), true, nil
	case scene.SurfaceData:
		polys := make([][][]gogeom.Coord, 0, len(d.Surface.Facets))
		for i, f := range d.Surface.Facets {
			ring, err := triangleRing(f)
			if err != nil {
				return nil, false, fmt.Errorf("export: %s: facet %d: %w", n.Label(), i, err)
			}
			polys = append(polys, [][]gogeom.Coord{ring})
		}
		return gogeom.NewMultiPolygon(gogeom.XYZ).MustSetCoords(polys), true, nil
	}
	return nil, false, nil
}

// FeatureCollection builds a GeoJSON feature per bounded node, in program
// order. Each feature carries the node name, kind and a size measure.
func FeatureCollection(s *scene.Scene) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{}
	for _, n := range s.Ordered() {
		g, ok, err := Geometry(n)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         n.ID.String(),
			Geometry:   g,
			Properties: properties(n),
		})
	}
	return fc, nil
}

// GeoJSON marshals the scene's FeatureCollection.
func GeoJSON(s *scene.Scene) ([]byte, error) {
	fc, err := FeatureCollection(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fc)
}

// WKT renders every bounded node as WKT, in program order.
func WKT(s *scene.Scene) ([]Entry, error) {
	var entries []Entry
	for _, n := range s.Ordered() {
		g, ok, err := Geometry(n)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		text, err := wkt.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("export: %s: %w", n.Label(), err)
		}
		entries = append(entries, Entry{Name: n.Label(), Kind: n.Kind.String(), WKT: text})
	}
	return entries, nil
}

func properties(n *scene.Node) map[string]interface{} {
	props := map[string]interface{}{
		"kind": n.Kind.String(),
	}
	if n.Name != "" {
		props["name"] = n.Name
	}
	switch d := n.Data.(type) {
	case scene.Segment2Data:
		props["length"] = d.Segment.Length()
	case scene.Segment3Data:
		props["length"] = d.Segment.Length()
	case scene.TriangleData:
		props["area"] = geom.TriangleArea(d.Triangle)
	case scene.SurfaceData:
		props["area"] = geom.SurfaceArea(d.Surface)
		props["facets"] = d.Surface.NumFacets()
	}
	return props
}

func coord2(p geom.Point2[float64]) gogeom.Coord {
	return gogeom.Coord{p[0], p[1]}
}

func coord3(p geom.Point3[float64]) gogeom.Coord {
	return gogeom.Coord{p[0], p[1], p[2]}
}

// triangleRing returns the closed linear ring of a triangle.
func triangleRing(t geom.Simplex3[float64]) ([]gogeom.Coord, error) {
	if len(t.Vertices) != 3 {
		return nil, &geom.VertexCountError{Expected: 3, Actual: len(t.Vertices)}
	}
	ring := lo.Map(t.Vertices, func(p geom.Point3[float64], _ int) gogeom.Coord { return coord3(p) })
	return append(ring, ring[0]), nil
}
