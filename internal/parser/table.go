package parser

import (
	"regexp"
	"strings"

	"github.com/parent-node-finder/backend/internal/models"
)

// FooterMarker starts the summary line that closes a device table.
const FooterMarker = "Devices reporting"

// TableColumns is the fixed arity of a device table row.
const TableColumns = 8

// Column layout of a device table row.
const (
	colMAC = iota
	colRate
	colIP
	colLayer
	colParent
	colFW
	colRSSI
	colHeap
)

var (
	separatorRegex = regexp.MustCompile(`^-{5,}`)
	cellSplitRegex = regexp.MustCompile(`\s{2,}`)
)

// TableExtractor reads the dashed device tables of the richer report format:
//
//	MAC                Rate  IP           Layer  Parent             FW     RSSI  Heap
//	-----------------------------------------------------------------------------------
//	aa:bb:cc:dd:ee:ff  1.00  10.0.0.2     1      NA                 v1.2   -40   12000
//	Devices reporting: 1
type TableExtractor struct{}

func NewTableExtractor() *TableExtractor {
	return &TableExtractor{}
}

func (p *TableExtractor) Name() string {
	return "table"
}

func (p *TableExtractor) Mode() models.Mode {
	return models.ModeSnapshot
}

// Extract returns the well-formed rows of one report as records.
func (p *TableExtractor) Extract(report string) []models.Record {
	rows := ExtractRows(report)
	records := make([]models.Record, 0, len(rows))
	macs := newMACPool()
	for _, cells := range rows {
		if rec, ok := tableRecord(cells, macs); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ExtractRows scans a report for dashed tables and returns the first eight
// cells of every data row. Rows with fewer cells are skipped. A blank line or
// the footer line ends the current table.
func ExtractRows(report string) [][]string {
	rows := make([][]string, 0)
	collecting := false

	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimRight(line, "\r")

		if separatorRegex.MatchString(line) {
			collecting = true
			continue
		}
		if !collecting {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, FooterMarker) {
			collecting = false
			continue
		}

		cells := cellSplitRegex.Split(trimmed, -1)
		if len(cells) < TableColumns {
			continue
		}
		rows = append(rows, cells[:TableColumns:TableColumns])
	}

	return rows
}

func tableRecord(cells []string, macs *macPool) (models.Record, bool) {
	if len(cells) < TableColumns || !IsMAC(cells[colMAC]) {
		return models.Record{}, false
	}
	rate, ok := parseNumber(cells[colRate])
	if !ok || rate < 0 {
		return models.Record{}, false
	}
	rssi, ok := parseNumber(cells[colRSSI])
	if !ok {
		return models.Record{}, false
	}

	return models.Record{
		Identifier: macs.canonical(cells[colMAC]),
		Rate:       rate,
		Signal:     rssi,
		Parent:     macs.canonical(cells[colParent]),
		Extras:     []string{cells[colIP], cells[colLayer], cells[colFW], cells[colHeap]},
	}, true
}
