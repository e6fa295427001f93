// Package parser recovers per-device records from connectivity telemetry
// logs: it segments reports, extracts device rows, drops root nodes,
// aggregates repeated observations and orders the result.
package parser

import (
	"github.com/parent-node-finder/backend/internal/models"
)

// Engine runs the extraction pipeline for a mode. It holds no state
// beyond its registry and is safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = GetGlobalRegistry()
	}
	return &Engine{registry: registry}
}

var defaultEngine = NewEngine(nil)

// Parse runs the default engine. See Engine.Parse.
func Parse(text, root1, root2 string, mode models.Mode) (models.Result, error) {
	return defaultEngine.Parse(text, root1, root2, mode)
}

// Resort orders records by key without modifying the input.
func Resort(records []models.Record, key models.SortKey) []models.Record {
	return Sort(records, key)
}

// Parse extracts device records from text according to mode and returns
// them ordered by MAC. An error is returned only for a mode the registry
// cannot serve; every text input yields a Result.
//
// ModeAggregate reads every matching line of the whole text and merges
// repeated MACs. ModeSnapshot keeps only the rows of the last report and
// notes NoteNoReports when the text holds no report.
func (e *Engine) Parse(text, root1, root2 string, mode models.Mode) (models.Result, error) {
	extractor, err := e.registry.ForMode(mode)
	if err != nil {
		return models.Result{}, err
	}

	result := models.Result{Mode: mode}
	var records []models.Record

	switch mode {
	case models.ModeSnapshot:
		reports := SegmentReports(text)
		if len(reports) == 0 {
			result.Records = []models.Record{}
			result.Note = models.NoteNoReports
			return result, nil
		}
		latest := reports[len(reports)-1]
		result.Reports = len(reports)
		if !latest.Timestamp.IsZero() {
			ts := latest.Timestamp
			result.ReportTime = &ts
		}
		records = FilterRoots(extractor.Extract(latest.Text), root1, root2)

	default:
		records = FilterRoots(extractor.Extract(text), root1, root2)
		records = Aggregate(records)
	}

	result.Records = Sort(records, models.SortByIdentifier)
	result.Count = len(result.Records)
	if result.Count == 0 {
		result.Note = models.NoteNoDevices
	}
	return result, nil
}
