// Package models contains domain types for the Parent Node Finder.
package models

import "time"

// Mode selects the report dialect and the processing applied to it.
type Mode string

const (
	// ModeAggregate scans every line of the blob with the loose single-line
	// pattern and merges repeated observations per MAC.
	ModeAggregate Mode = "aggregate"
	// ModeSnapshot keeps only the table rows of the most recent report.
	ModeSnapshot Mode = "snapshot"
)

// SortKey names a record ordering.
type SortKey string

const (
	SortByIdentifier SortKey = "identifier"
	SortBySignalDesc SortKey = "signal"
)

// Notes attached to an empty Result.
const (
	NoteNoReports = "no reports found"
	NoteNoDevices = "no devices found"
)

// Record is one device observation, or the summary of several.
type Record struct {
	Identifier string   `json:"mac" msgpack:"mac"`
	Rate       float64  `json:"rate" msgpack:"rate"`
	Signal     float64  `json:"rssi" msgpack:"rssi"`
	Parent     string   `json:"parent" msgpack:"parent"`
	Extras     []string `json:"extras,omitempty" msgpack:"extras,omitempty"` // IP, Layer, FW, Heap
	Samples    int      `json:"samples,omitempty" msgpack:"samples,omitempty"`
}

// Result is what a single engine invocation returns.
type Result struct {
	Mode       Mode       `json:"mode" msgpack:"mode"`
	Records    []Record   `json:"records" msgpack:"records"`
	Count      int        `json:"count" msgpack:"count"`
	Note       string     `json:"note,omitempty" msgpack:"note,omitempty"`
	Reports    int        `json:"reports,omitempty" msgpack:"reports,omitempty"`
	ReportTime *time.Time `json:"reportTime,omitempty" msgpack:"reportTime,omitempty"`
}

// Report is one timestamp-delimited block of a log.
type Report struct {
	Timestamp time.Time
	Text      string
}
