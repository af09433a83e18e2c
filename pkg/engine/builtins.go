package engine

import (
	"fmt"
	"math"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/geomkit/pkg/geom"
	"github.com/chazu/geomkit/pkg/scene"
)

// builder carries the scene being populated by one evaluation.
type builder struct {
	scene *scene.Scene
	anon  map[string]int
}

func newBuilder(s *scene.Scene) *builder {
	return &builder{scene: s, anon: make(map[string]int)}
}

// opts returns the tolerance currently in effect for the program.
func (b *builder) opts() []geom.Option {
	return b.scene.Options()
}

// anonPath returns a deterministic path for an unnamed node of the given
// kind. Counters are per evaluation, so equal programs produce equal IDs.
func (b *builder) anonPath(kind string) string {
	b.anon[kind]++
	return fmt.Sprintf("%s/_anon_%d", kind, b.anon[kind])
}

// resolve dereferences shape references to the geometry they name.
// Other values are returned unchanged.
func (b *builder) resolve(s zygo.Sexp) (zygo.Sexp, error) {
	ref, ok := s.(*sexpNodeRef)
	if !ok {
		return s, nil
	}
	n := b.scene.Get(ref.id)
	if n == nil {
		return nil, fmt.Errorf("shape %s no longer exists", ref.SexpString(nil))
	}
	return sexpFromNode(n, b.opts())
}

// resolveAll resolves every argument, prefixing errors with the builtin name.
func (b *builder) resolveAll(fn string, args []zygo.Sexp) ([]zygo.Sexp, error) {
	out := make([]zygo.Sexp, len(args))
	for i, a := range args {
		v, err := b.resolve(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all geomkit DSL builtins into a zygomys
// environment. Constructors return geometry values; defshape, group and
// report record them in the builder's scene.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	registerConstructors(env, b)
	registerSceneForms(env, b)
	registerQueries(env, b)
}

func registerConstructors(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (point x y) / (point x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 && len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("point requires 2 or 3 coordinates, got %d", len(args))
		}
		coords := make([]float64, len(args))
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("point: coordinate %d: %w", i+1, err)
			}
			coords[i] = f
		}
		if len(coords) == 2 {
			return &sexpPoint2{p: geom.Pt2(coords[0], coords[1])}, nil
		}
		return &sexpPoint3{p: geom.Pt3(coords[0], coords[1], coords[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (segment (point 0 0) (point 1 1))
	// -----------------------------------------------------------------------
	env.AddFunction("segment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("segment requires exactly 2 points, got %d", len(args))
		}
		args, err := b.resolveAll("segment", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		switch a := args[0].(type) {
		case *sexpPoint2:
			end, err := toPoint2(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("segment: end: %w", err)
			}
			return &sexpSegment2{s: geom.NewSegment(a.p, end)}, nil
		case *sexpPoint3:
			end, err := toPoint3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("segment: end: %w", err)
			}
			return &sexpSegment3{s: geom.NewSegment(a.p, end)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("segment: start: expected point, got %s", describe(args[0]))
	})

	// -----------------------------------------------------------------------
	// (plane :point (point 0 0 0) :normal (point 0 0 1))
	// (plane (point 0 0 0) (point 0 0 1))
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pointArg, normalArg := pa.kw["point"], pa.kw["normal"]
		if pointArg == nil && len(pa.positional) > 0 {
			pointArg = pa.positional[0]
		}
		if normalArg == nil && len(pa.positional) > 1 {
			normalArg = pa.positional[1]
		}
		if pointArg == nil || normalArg == nil {
			return zygo.SexpNull, fmt.Errorf("plane requires a point and a normal")
		}

		vals, err := b.resolveAll("plane", []zygo.Sexp{pointArg, normalArg})
		if err != nil {
			return zygo.SexpNull, err
		}
		p, err := toPoint3(vals[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: point: %w", err)
		}
		n, err := toPoint3(vals[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
		}
		pl, err := geom.NewPlane(p, n, b.opts()...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		return &sexpPlane{pl: pl}, nil
	})

	// -----------------------------------------------------------------------
	// (plane-through p1 p2 p3)
	// -----------------------------------------------------------------------
	env.AddFunction("plane_through", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := b.points3("plane-through", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		pl, err := geom.NewPlaneFromPoints(pts[0], pts[1], pts[2], b.opts()...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane-through: %w", err)
		}
		return &sexpPlane{pl: pl}, nil
	})

	// -----------------------------------------------------------------------
	// (triangle p1 p2 p3)
	// -----------------------------------------------------------------------
	env.AddFunction("triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := b.points3("triangle", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		t, err := geom.NewSimplex(pts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("triangle: %w", err)
		}
		return &sexpTriangle{t: t}, nil
	})

	// -----------------------------------------------------------------------
	// (surface t1 t2 ...) / (surface (list t1 t2 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("surface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var items []zygo.Sexp
		for _, a := range args {
			if list, err := sexpListToSlice(a); err == nil {
				items = append(items, list...)
				continue
			}
			items = append(items, a)
		}
		items, err := b.resolveAll("surface", items)
		if err != nil {
			return zygo.SexpNull, err
		}

		var s geom.Surface3[float64]
		for i, item := range items {
			switch v := item.(type) {
			case *sexpTriangle:
				s.AddFacet(v.t)
			case *sexpSurface:
				for _, f := range v.s.Facets {
					s.AddFacet(f)
				}
			default:
				return zygo.SexpNull, fmt.Errorf("surface: facet %d: expected triangle, got %s", i+1, describe(item))
			}
		}
		return &sexpSurface{s: s}, nil
	})
}

// points3 resolves exactly n arguments as 3D points.
func (b *builder) points3(fn string, args []zygo.Sexp, n int) ([]geom.Point3[float64], error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d points, got %d", fn, n, len(args))
	}
	vals, err := b.resolveAll(fn, args)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Point3[float64], n)
	for i, v := range vals {
		p, err := toPoint3(v)
		if err != nil {
			return nil, fmt.Errorf("%s: point %d: %w", fn, i+1, err)
		}
		pts[i] = p
	}
	return pts, nil
}

func registerSceneForms(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (defshape "name" value)
	// -----------------------------------------------------------------------
	env.AddFunction("defshape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defshape requires a name and a body expression")
		}

		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
		}
		if b.scene.Lookup(shapeName) != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %q is already defined", shapeName)
		}

		body, err := b.resolve(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
		}
		kind, data, err := nodeData(body)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
		}

		id := scene.NewNodeID(kind.String() + "/" + shapeName)
		b.scene.AddNode(&scene.Node{
			ID:   id,
			Kind: kind,
			Name: shapeName,
			Data: data,
		})
		b.scene.AddRoot(id)

		return &sexpNodeRef{id: id, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (shape "name")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}

		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}

		n := b.scene.Lookup(shapeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}

		return &sexpNodeRef{id: n.ID, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (group "name" (shape "a") (defshape "b" ...) ... :description "...")
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}

		groupName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		if b.scene.Lookup(groupName) != nil {
			return zygo.SexpNull, fmt.Errorf("group: %q is already defined", groupName)
		}

		gd := scene.GroupData{}
		if v, ok := pa.kw["description"]; ok {
			d, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: description: %w", err)
			}
			gd.Description = d
		}

		var children []scene.NodeID
		for i := 1; i < len(pa.positional); i++ {
			id, err := toNodeRef(pa.positional[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i, err)
			}
			children = append(children, id)
		}

		id := scene.NewNodeID("group/" + groupName)
		b.scene.AddNode(&scene.Node{
			ID:       id,
			Kind:     scene.KindGroup,
			Name:     groupName,
			Children: children,
			Data:     gd,
		})
		b.scene.AddRoot(id)

		return &sexpNodeRef{id: id, name: groupName}, nil
	})

	// -----------------------------------------------------------------------
	// (report "label" value)
	// -----------------------------------------------------------------------
	env.AddFunction("report", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("report requires a label and a value")
		}
		label, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("report: label: %w", err)
		}
		val, err := b.resolve(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("report: %w", err)
		}

		value, text := reportValue(val)
		id := scene.NewNodeID(b.anonPath("report"))
		b.scene.AddNode(&scene.Node{
			ID:   id,
			Kind: scene.KindQuery,
			Data: scene.QueryData{Label: label, Value: value, Text: text},
		})
		b.scene.AddRoot(id)

		return args[1], nil
	})

	// -----------------------------------------------------------------------
	// (epsilon) / (epsilon 1e-6)
	// -----------------------------------------------------------------------
	env.AddFunction("epsilon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		switch len(args) {
		case 0:
		case 1:
			eps, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("epsilon: %w", err)
			}
			if eps < 0 || math.IsNaN(eps) {
				return zygo.SexpNull, fmt.Errorf("epsilon: tolerance must be a non-negative number, got %g", eps)
			}
			b.scene.Epsilon = eps
		default:
			return zygo.SexpNull, fmt.Errorf("epsilon takes at most one argument, got %d", len(args))
		}
		return floatSexp(b.scene.Epsilon), nil
	})
}
