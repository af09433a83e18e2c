package engine

import (
	"fmt"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/geomkit/pkg/geom"
	"github.com/chazu/geomkit/pkg/scene"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing geometry through the zygomys environment
// ---------------------------------------------------------------------------

type sexpPoint2 struct {
	p geom.Point2[float64]
}

func (v *sexpPoint2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g)", v.p[0], v.p[1])
}
func (v *sexpPoint2) Type() *zygo.RegisteredType { return nil }

type sexpPoint3 struct {
	p geom.Point3[float64]
}

func (v *sexpPoint3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g %g)", v.p[0], v.p[1], v.p[2])
}
func (v *sexpPoint3) Type() *zygo.RegisteredType { return nil }

type sexpSegment2 struct {
	s geom.Segment2[float64]
}

func (v *sexpSegment2) SexpString(ps *zygo.PrintState) string {
	return "(segment " + v.s.String() + ")"
}
func (v *sexpSegment2) Type() *zygo.RegisteredType { return nil }

type sexpSegment3 struct {
	s geom.Segment3[float64]
}

func (v *sexpSegment3) SexpString(ps *zygo.PrintState) string {
	return "(segment " + v.s.String() + ")"
}
func (v *sexpSegment3) Type() *zygo.RegisteredType { return nil }

type sexpPlane struct {
	pl geom.Plane[float64]
}

func (v *sexpPlane) SexpString(ps *zygo.PrintState) string {
	return "(" + v.pl.String() + ")"
}
func (v *sexpPlane) Type() *zygo.RegisteredType { return nil }

type sexpTriangle struct {
	t geom.Simplex3[float64]
}

func (v *sexpTriangle) SexpString(ps *zygo.PrintState) string {
	parts := make([]string, len(v.t.Vertices))
	for i, p := range v.t.Vertices {
		parts[i] = p.String()
	}
	return "(triangle " + strings.Join(parts, " ") + ")"
}
func (v *sexpTriangle) Type() *zygo.RegisteredType { return nil }

type sexpSurface struct {
	s geom.Surface3[float64]
}

func (v *sexpSurface) SexpString(ps *zygo.PrintState) string {
	return "(" + v.s.String() + ")"
}
func (v *sexpSurface) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(shape %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// describe renders a Sexp for error messages.
func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (scene.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return scene.ZeroID, fmt.Errorf("expected shape reference, got %s", describe(s))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func toPoint2(s zygo.Sexp) (geom.Point2[float64], error) {
	if v, ok := s.(*sexpPoint2); ok {
		return v.p, nil
	}
	return geom.Point2[float64]{}, fmt.Errorf("expected 2D point, got %s", describe(s))
}

func toPoint3(s zygo.Sexp) (geom.Point3[float64], error) {
	if v, ok := s.(*sexpPoint3); ok {
		return v.p, nil
	}
	return geom.Point3[float64]{}, fmt.Errorf("expected 3D point, got %s", describe(s))
}

func toSegment3(s zygo.Sexp) (geom.Segment3[float64], error) {
	if v, ok := s.(*sexpSegment3); ok {
		return v.s, nil
	}
	return geom.Segment3[float64]{}, fmt.Errorf("expected 3D segment, got %s", describe(s))
}

func toPlane(s zygo.Sexp) (geom.Plane[float64], error) {
	if v, ok := s.(*sexpPlane); ok {
		return v.pl, nil
	}
	return geom.Plane[float64]{}, fmt.Errorf("expected plane, got %s", describe(s))
}

func boolSexp(b bool) zygo.Sexp {
	return &zygo.SexpBool{Val: b}
}

func floatSexp(f float64) zygo.Sexp {
	return &zygo.SexpFloat{Val: f}
}

func strSexp(s string) zygo.Sexp {
	return &zygo.SexpStr{S: s}
}

// ---------------------------------------------------------------------------
// Conversion between Sexp values and scene payloads
// ---------------------------------------------------------------------------

// nodeData converts a geometric Sexp into the scene payload stored for it.
func nodeData(s zygo.Sexp) (scene.NodeKind, scene.NodeData, error) {
	switch v := s.(type) {
	case *sexpPoint2:
		return scene.KindPoint, scene.Point2Data{Point: v.p}, nil
	case *sexpPoint3:
		return scene.KindPoint, scene.Point3Data{Point: v.p}, nil
	case *sexpSegment2:
		return scene.KindSegment, scene.Segment2Data{Segment: v.s}, nil
	case *sexpSegment3:
		return scene.KindSegment, scene.Segment3Data{Segment: v.s}, nil
	case *sexpPlane:
		return scene.KindPlane, scene.NewPlaneData(v.pl), nil
	case *sexpTriangle:
		return scene.KindTriangle, scene.TriangleData{Triangle: v.t}, nil
	case *sexpSurface:
		return scene.KindSurface, scene.SurfaceData{Surface: v.s}, nil
	}
	return 0, nil, fmt.Errorf("expected geometry, got %s", describe(s))
}

// sexpFromNode converts a stored scene node back into its Sexp value.
func sexpFromNode(n *scene.Node, opts []geom.Option) (zygo.Sexp, error) {
	switch d := n.Data.(type) {
	case scene.Point2Data:
		return &sexpPoint2{p: d.Point}, nil
	case scene.Point3Data:
		return &sexpPoint3{p: d.Point}, nil
	case scene.Segment2Data:
		return &sexpSegment2{s: d.Segment}, nil
	case scene.Segment3Data:
		return &sexpSegment3{s: d.Segment}, nil
	case scene.PlaneData:
		pl, err := d.Plane(opts...)
		if err != nil {
			return nil, err
		}
		return &sexpPlane{pl: pl}, nil
	case scene.TriangleData:
		return &sexpTriangle{t: d.Triangle}, nil
	case scene.SurfaceData:
		return &sexpSurface{s: d.Surface}, nil
	}
	return nil, fmt.Errorf("%s %q is not geometry", n.Kind, n.Label())
}

// reportValue converts a query result into the Go value and text recorded
// in a scene.QueryData.
func reportValue(s zygo.Sexp) (any, string) {
	switch v := s.(type) {
	case *sexpPoint2:
		return v.p, v.p.String()
	case *sexpPoint3:
		return v.p, v.p.String()
	case *sexpSegment2:
		return v.s, v.s.String()
	case *sexpSegment3:
		return v.s, v.s.String()
	case *sexpPlane:
		return scene.NewPlaneData(v.pl), v.pl.String()
	case *sexpTriangle:
		return v.t, v.SexpString(nil)
	case *sexpSurface:
		return v.s, v.s.String()
	case *zygo.SexpBool:
		return v.Val, strconv.FormatBool(v.Val)
	case *zygo.SexpInt:
		return float64(v.Val), strconv.FormatInt(v.Val, 10)
	case *zygo.SexpFloat:
		return v.Val, strconv.FormatFloat(v.Val, 'g', -1, 64)
	case *zygo.SexpStr:
		return v.S, v.S
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, "none"
		}
	}
	text := describe(s)
	return text, text
}
