package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/twpayne/go-geom/encoding/geojson"
	"gopkg.in/yaml.v3"

	"github.com/chazu/geomkit/pkg/export"
)

// fileResult is the outcome of evaluating one input file.
type fileResult struct {
	File string
	EvalResult
	STL []string
}

type meshSummary struct {
	Name      string `json:"name" yaml:"name"`
	Triangles int    `json:"triangles" yaml:"triangles"`
	Color     string `json:"color" yaml:"color"`
}

// fileReport is the json and yaml shape of a fileResult. Meshes are
// summarized; the vertex data goes to STL.
type fileReport struct {
	File     string          `json:"file" yaml:"file"`
	Reports  []ReportData    `json:"reports" yaml:"reports"`
	Entities []export.Entry  `json:"entities" yaml:"entities"`
	Meshes   []meshSummary   `json:"meshes" yaml:"meshes"`
	STL      []string        `json:"stl,omitempty" yaml:"stl,omitempty"`
	Errors   []EvalErrorData `json:"errors" yaml:"errors"`
	Warnings []EvalErrorData `json:"warnings" yaml:"warnings"`
}

func newFileReport(r fileResult) fileReport {
	return fileReport{
		File:     r.File,
		Reports:  r.Reports,
		Entities: r.Entities,
		Meshes: lo.Map(r.Meshes, func(m MeshData, _ int) meshSummary {
			return meshSummary{Name: m.Name, Triangles: len(m.Indices) / 3, Color: m.Color}
		}),
		STL:      r.STL,
		Errors:   r.Errors,
		Warnings: r.Warnings,
	}
}

// writeResults renders results in the given format.
func writeResults(w io.Writer, format string, results []fileResult) error {
	switch format {
	case "text":
		return writeText(w, results)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(lo.Map(results, func(r fileResult, _ int) fileReport {
			return newFileReport(r)
		})), "encoding json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(lo.Map(results, func(r fileResult, _ int) fileReport {
			return newFileReport(r)
		})); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return enc.Close()
	case "geojson":
		return writeGeoJSON(w, results)
	}
	return errors.Errorf("unknown format %q", format)
}

func writeText(w io.Writer, results []fileResult) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", r.File)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "error: %s\n", describeFinding(e))
		}
		for _, wn := range r.Warnings {
			fmt.Fprintf(w, "warning: %s\n", describeFinding(wn))
		}
		for _, rep := range r.Reports {
			fmt.Fprintf(w, "%s: %s\n", rep.Label, rep.Text)
		}
		for _, e := range r.Entities {
			fmt.Fprintf(w, "%s %s: %s\n", e.Kind, e.Name, e.WKT)
		}
		for _, m := range r.Meshes {
			fmt.Fprintf(w, "mesh %s: %d triangles\n", m.Name, len(m.Indices)/3)
		}
		for _, p := range r.STL {
			fmt.Fprintf(w, "wrote %s\n", p)
		}
	}
	return nil
}

func describeFinding(e EvalErrorData) string {
	msg := e.Message
	if e.Node != "" {
		msg = e.Node + ": " + msg
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// writeGeoJSON merges the features of every evaluated file into one
// FeatureCollection, tagging each with its source file.
func writeGeoJSON(w io.Writer, results []fileResult) error {
	all := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, r := range results {
		s := r.Scene()
		if s == nil {
			continue
		}
		fc, err := export.FeatureCollection(s)
		if err != nil {
			return errors.Wrapf(err, "exporting %s", r.File)
		}
		for _, f := range fc.Features {
			f.Properties["file"] = r.File
		}
		all.Features = append(all.Features, fc.Features...)
	}
	data, err := json.Marshal(all)
	if err != nil {
		return errors.Wrap(err, "encoding geojson")
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
