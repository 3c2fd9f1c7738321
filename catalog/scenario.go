package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/orbit-simulator/internal/logging"
	"github.com/signalsfoundry/orbit-simulator/model"
	"github.com/signalsfoundry/orbit-simulator/orbit"
)

// Format selects the scenario document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Report summarises a scenario load. Validation findings are data, not
// errors: a body with an invalid orbit still registers (and reports the
// undefined position) so that one bad entry does not block a whole
// scenario.
type Report struct {
	Scenario string
	BodyIDs  []int64

	// Findings maps body name to the orbit validator's field->messages
	// map, for bodies that failed validation.
	Findings map[string]map[string][]string
}

// Valid reports whether every loaded body passed orbit validation.
func (r *Report) Valid() bool {
	return len(r.Findings) == 0
}

// Document shapes stay unexported so the on-disk format can evolve
// without touching the public API. The same structs serve JSON and YAML.
type scenarioDoc struct {
	Name   string    `json:"name" yaml:"name"`
	Bodies []bodyDoc `json:"bodies" yaml:"bodies"`
}

type bodyDoc struct {
	Name   string    `json:"name" yaml:"name"`
	Kind   string    `json:"kind" yaml:"kind"`
	Color  string    `json:"color" yaml:"color"`
	Parent string    `json:"parent" yaml:"parent"`
	Orbit  *orbitDoc `json:"orbit" yaml:"orbit"`
}

type orbitDoc struct {
	MajorWidth      float64 `json:"major_width" yaml:"major_width"`
	MinorWidth      float64 `json:"minor_width" yaml:"minor_width"`
	StepCount       int     `json:"step_count" yaml:"step_count"`
	StepOffset      int     `json:"step_offset" yaml:"step_offset"`
	RotationDegrees float64 `json:"rotation_degrees" yaml:"rotation_degrees"`
	OffsetX         float64 `json:"offset_x" yaml:"offset_x"`
	OffsetY         float64 `json:"offset_y" yaml:"offset_y"`
	Clockwise       bool    `json:"clockwise" yaml:"clockwise"`
}

// LoadScenarioFile loads a scenario document from disk, picking the
// format from the file extension (.json, .yaml, .yml).
func LoadScenarioFile(cat *Catalog, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("unknown scenario format %q", filepath.Ext(path))
	}
	return LoadScenario(cat, data, format)
}

// LoadScenario parses a scenario document and registers its bodies in the
// catalog. Loading is two-pass: bodies register first (IDs come from the
// catalog's sequence, colors default from the palette when absent), then
// parent orbits are wired by name, so a child may be declared before its
// parent.
//
// Only structural problems are errors: bad syntax, missing or duplicate
// names, unknown parents, unknown formats. Orbit validation findings land
// in the report instead.
func LoadScenario(cat *Catalog, data []byte, format Format) (*Report, error) {
	if cat == nil {
		return nil, fmt.Errorf("load scenario: catalog is nil")
	}

	var doc scenarioDoc
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode scenario: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode scenario: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}

	report := &Report{
		Scenario: doc.Name,
		BodyIDs:  make([]int64, 0, len(doc.Bodies)),
		Findings: make(map[string]map[string][]string),
	}
	palette := model.Palette(len(doc.Bodies))

	// Pass 1: register bodies.
	for i, bd := range doc.Bodies {
		if bd.Name == "" {
			return nil, fmt.Errorf("scenario body %d has no name", i)
		}

		color := palette[i]
		if bd.Color != "" {
			parsed, err := model.ParseColor(bd.Color)
			if err != nil {
				return nil, fmt.Errorf("scenario body %q: %w", bd.Name, err)
			}
			color = parsed
		}

		body := &model.Body{
			Name:  bd.Name,
			Kind:  model.KindFromString(bd.Kind),
			Color: color,
			Orbit: orbitFromDoc(bd.Orbit),
		}
		id, err := cat.AddBody(body)
		if err != nil {
			return nil, fmt.Errorf("scenario body %q: %w", bd.Name, err)
		}
		report.BodyIDs = append(report.BodyIDs, id)

		if findings := body.Orbit.ErrorsByField(); findings != nil {
			report.Findings[bd.Name] = findings
			cat.log.Warn(context.Background(), "scenario body failed validation",
				logging.String("body", bd.Name),
				logging.Any("findings", findings),
			)
		}
	}

	// Pass 2: wire parents by name.
	for _, bd := range doc.Bodies {
		if bd.Parent == "" {
			continue
		}
		parent, err := cat.BodyByName(bd.Parent)
		if err != nil {
			return nil, fmt.Errorf("scenario body %q: unknown parent %q", bd.Name, bd.Parent)
		}
		child, err := cat.BodyByName(bd.Name)
		if err != nil {
			return nil, err
		}
		if err := cat.UpdateOrbit(child.ID, func(cfg *orbit.Config) {
			cfg.SetParent(parent.Orbit)
		}); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func orbitFromDoc(doc *orbitDoc) *orbit.Config {
	cfg := orbit.NewConfig()
	if doc == nil {
		return cfg
	}
	cfg.SetMajorWidth(doc.MajorWidth)
	cfg.SetMinorWidth(doc.MinorWidth)
	cfg.SetStepCount(doc.StepCount)
	cfg.SetStepOffset(doc.StepOffset)
	cfg.SetRotation(orbit.Radians(doc.RotationDegrees))
	cfg.SetOffsetX(doc.OffsetX)
	cfg.SetOffsetY(doc.OffsetY)
	cfg.SetClockwise(doc.Clockwise)
	return cfg
}
