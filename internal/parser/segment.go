package parser

import (
	"regexp"
	"strings"

	"github.com/parent-node-finder/backend/internal/models"
)

// TableMarker is the header token every device table carries.
const TableMarker = "MAC"

// reportDelimiter matches a timestamp line followed by a blank line.
var reportDelimiter = regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+)\s*\n\s*\n`)

// Segment splits a log into report bodies in file order.
func Segment(text string) []string {
	reports := SegmentReports(text)
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Text
	}
	return out
}

// SegmentReports splits a log into reports, each stamped with the
// timestamp of the delimiter line preceding it. Fragments without the
// table marker are dropped.
func SegmentReports(text string) []models.Report {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	matches := reportDelimiter.FindAllStringSubmatchIndex(text, -1)
	reports := make([]models.Report, 0, len(matches)+1)

	prev := 0
	var stamp string
	add := func(fragment string) {
		fragment = strings.TrimSpace(fragment)
		if !strings.Contains(fragment, TableMarker) {
			return
		}
		r := models.Report{Text: fragment}
		if stamp != "" {
			if ts, err := FastTimestamp(stamp); err == nil {
				r.Timestamp = ts
			}
		}
		reports = append(reports, r)
	}

	for _, m := range matches {
		add(text[prev:m[0]])
		stamp = text[m[2]:m[3]]
		prev = m[1]
	}
	add(text[prev:])

	return reports
}
