package main

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/chazu/geomkit/pkg/engine"
	"github.com/chazu/geomkit/pkg/export"
	"github.com/chazu/geomkit/pkg/geom"
	"github.com/chazu/geomkit/pkg/kernel"
	"github.com/chazu/geomkit/pkg/kernel/sdfx"
	"github.com/chazu/geomkit/pkg/scene"
	"github.com/chazu/geomkit/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Config holds the settings an App is built with.
type Config struct {
	Epsilon   float64
	Timeout   time.Duration
	RodRadius float64
}

// App is the geomkit backend. It runs a program through evaluation,
// validation, export and tessellation.
type App struct {
	engine    *engine.Engine
	kernel    kernel.Kernel
	rodRadius float64
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Col     int    `json:"col,omitempty" yaml:"col,omitempty"`
	Message string `json:"message" yaml:"message"`
	Node    string `json:"node,omitempty" yaml:"node,omitempty"`
}

// ReportData is one (report ...) result.
type ReportData struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

// EvalResult is the full result of evaluating one program.
type EvalResult struct {
	Reports  []ReportData    `json:"reports"`
	Entities []export.Entry  `json:"entities"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	scene *scene.Scene
}

// Scene returns the evaluated scene, or nil when evaluation failed.
func (r EvalResult) Scene() *scene.Scene { return r.scene }

// DefaultConfig returns the engine defaults with segment meshing disabled.
func DefaultConfig() Config {
	return Config{Epsilon: geom.DefaultEpsilon, Timeout: engine.EvalTimeout}
}

// NewApp creates a new App with default settings and the sdfx kernel.
func NewApp() *App {
	return NewAppWithConfig(DefaultConfig())
}

// NewAppWithConfig creates an App. A negative epsilon or non-positive
// timeout keeps the engine default.
func NewAppWithConfig(cfg Config) *App {
	return &App{
		engine:    engine.NewEngine(engine.WithEpsilon(cfg.Epsilon), engine.WithTimeout(cfg.Timeout)),
		kernel:    sdfx.New(),
		rodRadius: cfg.RodRadius,
	}
}

// Evaluate takes Lisp source and returns reports, entities, meshes and errors.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with cancellation.
func (a *App) EvaluateContext(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Reports:  []ReportData{},
		Entities: []export.Entry{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene and validate it.
	res, err := a.engine.EvaluateAll(ctx, source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		glog.Errorf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
			Node:    nodeLabel(res.Scene, w.NodeID),
		})
	}

	// Step 2: Eval and blocking validation errors stop the pipeline.
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
				Node:    nodeLabel(res.Scene, e.NodeID),
			})
		}
		return result
	}
	s := res.Scene
	result.scene = s

	// Step 3: Collect reports and WKT renderings.
	for _, n := range s.Queries() {
		q := n.Data.(scene.QueryData)
		result.Reports = append(result.Reports, ReportData{Label: q.Label, Value: q.Value, Text: q.Text})
	}
	entities, err := export.WKT(s)
	if err != nil {
		glog.Errorf("Export error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "export failed: " + err.Error()})
		return result
	}
	result.Entities = append(result.Entities, entities...)

	// Step 4: Tessellate surfaces (and rods, when enabled) into meshes.
	meshes, err := tessellate.Tessellate(s, a.kernel, tessellate.WithRodRadius(a.rodRadius))
	if err != nil {
		glog.Errorf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	return result
}

// ExportSTL writes one STL file per surface of a successful result into dir.
func (a *App) ExportSTL(result EvalResult, dir string) ([]string, error) {
	if result.scene == nil {
		return nil, nil
	}
	paths, err := tessellate.WriteSTL(result.scene, a.kernel, dir, tessellate.WithRodRadius(a.rodRadius))
	for _, p := range paths {
		glog.Infof("Wrote %s", p)
	}
	return paths, err
}

func nodeLabel(s *scene.Scene, id scene.NodeID) string {
	if id.IsZero() {
		return ""
	}
	if s != nil {
		if n := s.Get(id); n != nil {
			return n.Label()
		}
	}
	return id.Short()
}
