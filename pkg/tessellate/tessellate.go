// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per surface or triangle node, and
// optionally per 3D segment rendered as a rod.
package tessellate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/geomkit/pkg/geom"
	"github.com/chazu/geomkit/pkg/kernel"
	"github.com/chazu/geomkit/pkg/scene"
)

// Option configures a tessellation run.
type Option func(*options)

type options struct {
	rodRadius float64
}

// WithRodRadius renders 3D segments as rods of the given radius. Segments
// are skipped when the radius is zero, which is the default.
func WithRodRadius(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.rodRadius = r
		}
	}
}

// part is a kernel solid tied to the scene node it came from.
type part struct {
	id    scene.NodeID
	name  string
	solid kernel.Solid
}

// walker carries the state of one traversal. Nodes reachable through more
// than one path (a named shape that is also a group child) are visited once.
type walker struct {
	s       *scene.Scene
	k       kernel.Kernel
	opts    options
	visited map[scene.NodeID]bool
}

// Tessellate walks the scene and produces one triangle mesh per
// meshable node using the provided geometry kernel. The tessellator is
// read-only and never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel, opts ...Option) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	parts, err := collect(s, k, opts)
	if err != nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		mesh, err := k.ToMesh(p.solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", p.name, err)
		}
		mesh.Name = p.name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// WriteSTL writes one STL file per meshable node into dir, creating it if
// needed, and returns the paths written. When two labels map to the same
// file name, the later part gets the short node ID appended.
func WriteSTL(s *scene.Scene, k kernel.Kernel, dir string, opts ...Option) ([]string, error) {
	parts, err := collect(s, k, opts)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	paths := make([]string, 0, len(parts))
	used := make(map[string]bool, len(parts))
	for _, p := range parts {
		name := FileName(p.name)
		if used[name] {
			name = FileName(p.name + "_" + p.id.Short())
		}
		used[name] = true
		path := filepath.Join(dir, name)
		if err := k.WriteSTL(p.solid, path); err != nil {
			return paths, fmt.Errorf("tessellate: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FileName returns the STL file name used for a node label. Path
// separators and spaces are replaced so every label maps into one
// directory.
func FileName(label string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", string(os.PathSeparator), "_")
	return r.Replace(label) + ".stl"
}

func collect(s *scene.Scene, k kernel.Kernel, opts []Option) ([]part, error) {
	if s == nil {
		return nil, nil
	}
	w := &walker{s: s, k: k, visited: make(map[scene.NodeID]bool)}
	for _, o := range opts {
		o(&w.opts)
	}

	var parts []part
	for _, rootID := range s.Roots {
		root := s.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := w.walkNode(root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// walkNode recursively traverses a node and its children, collecting parts.
func (w *walker) walkNode(n *scene.Node) ([]part, error) {
	if w.visited[n.ID] {
		return nil, nil
	}
	w.visited[n.ID] = true

	switch n.Kind {
	case scene.KindSurface, scene.KindTriangle:
		return w.handleFacets(n)

	case scene.KindSegment:
		return w.handleSegment(n)

	case scene.KindGroup:
		return w.handleGroup(n)

	case scene.KindPoint, scene.KindPlane, scene.KindQuery:
		// Points and unbounded planes have no mesh; queries are not geometry.
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handleFacets creates a facet solid for a surface or triangle node.
func (w *walker) handleFacets(n *scene.Node) ([]part, error) {
	var tris []geom.Simplex3[float64]
	switch data := n.Data.(type) {
	case scene.SurfaceData:
		tris = data.Surface.Facets
	case scene.TriangleData:
		tris = []geom.Simplex3[float64]{data.Triangle}
	default:
		return nil, fmt.Errorf("%s node %s has unexpected data type %T", n.Kind, n.ID.Short(), n.Data)
	}
	if len(tris) == 0 {
		return nil, nil
	}

	bad, hasBad := lo.Find(tris, func(t geom.Simplex3[float64]) bool { return len(t.Vertices) != 3 })
	if hasBad {
		return nil, fmt.Errorf("node %s: facet has %d vertices, want 3", n.Label(), len(bad.Vertices))
	}
	facets := lo.Map(tris, func(t geom.Simplex3[float64], _ int) kernel.Facet {
		return kernel.Facet{
			[3]float64(t.Vertices[0]),
			[3]float64(t.Vertices[1]),
			[3]float64(t.Vertices[2]),
		}
	})

	solid, err := w.k.Facets(facets)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", n.Label(), err)
	}
	return []part{{id: n.ID, name: n.Label(), solid: solid}}, nil
}

// handleSegment renders a 3D segment as a rod when a rod radius is set.
// 2D and zero-length segments have no volume to render.
func (w *walker) handleSegment(n *scene.Node) ([]part, error) {
	data, ok := n.Data.(scene.Segment3Data)
	if !ok || w.opts.rodRadius == 0 {
		return nil, nil
	}
	seg := data.Segment
	if seg.IsDegenerate(w.s.Options()...) {
		return nil, nil
	}
	solid, err := w.k.Rod([3]float64(seg.Start), [3]float64(seg.End), w.opts.rodRadius)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", n.Label(), err)
	}
	return []part{{id: n.ID, name: n.Label(), solid: solid}}, nil
}

// handleGroup recurses into children transparently.
func (w *walker) handleGroup(n *scene.Node) ([]part, error) {
	var parts []part
	for _, child := range w.s.Children(n) {
		collected, err := w.walkNode(child)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}
