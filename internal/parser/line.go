package parser

import (
	"regexp"
	"strings"

	"github.com/parent-node-finder/backend/internal/models"
)

// LineExtractor matches loosely formatted device lines anywhere in a log.
// Format: "<mac>  <rate>  <n|NA>  <int>  <parent|NA>  <int>  <rssi>"
type LineExtractor struct {
	lineRegex *regexp.Regexp
}

func NewLineExtractor() *LineExtractor {
	return &LineExtractor{
		lineRegex: regexp.MustCompile(`(?i)([0-9a-f:]{17})\s+(\d+\.\d+)\s+[\d.NA]+\s+\d+\s+([0-9a-f:NA]+)\s+\d+\s+(-?\d+)`),
	}
}

func (p *LineExtractor) Name() string {
	return "line"
}

func (p *LineExtractor) Mode() models.Mode {
	return models.ModeAggregate
}

// Extract returns one record per matching line, in input order.
func (p *LineExtractor) Extract(text string) []models.Record {
	records := make([]models.Record, 0)
	macs := newMACPool()
	for _, line := range strings.Split(text, "\n") {
		if rec, ok := p.parseLine(line, macs); ok {
			records = append(records, rec)
		}
	}
	return records
}

func (p *LineExtractor) parseLine(line string, macs *macPool) (models.Record, bool) {
	m := p.lineRegex.FindStringSubmatch(line)
	if m == nil || !IsMAC(m[1]) {
		return models.Record{}, false
	}

	rate, ok := parseNumber(m[2])
	if !ok {
		return models.Record{}, false
	}
	rssi, ok := parseNumber(m[4])
	if !ok {
		return models.Record{}, false
	}

	return models.Record{
		Identifier: macs.canonical(m[1]),
		Rate:       rate,
		Parent:     macs.canonical(m[3]),
		Signal:     rssi,
	}, true
}
