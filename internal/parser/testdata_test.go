package parser

import "strings"

// row joins cells with a two-space gap, the minimum table separator.
func row(cells ...string) string {
	return strings.Join(cells, "  ")
}

const tableHeader = "MAC                Rate  IP          Layer  Parent             FW      RSSI  Heap\n" +
	"--------------------------------------------------------------------------------"

// snapshotLog holds two reports; the second is the latest.
var snapshotLog = strings.Join([]string{
	"Mesh diagnostics v2",
	"2025-09-25 06:02:11.086512",
	"",
	tableHeader,
	row("aa:bb:cc:dd:ee:ff", "1.00", "10.0.0.2", "1", "NA", "v1.2.0", "-40", "120000"),
	row("11:22:33:44:55:66", "2.50", "10.0.0.3", "2", "aa:bb:cc:dd:ee:ff", "v1.2.0", "-62", "118000"),
	"Devices reporting: 2",
	"2025-09-25 06:03:11.000001",
	"",
	tableHeader,
	row("aa:bb:cc:dd:ee:ff", "1.00", "10.0.0.2", "1", "NA", "v1.2.0", "-41", "119000"),
	row("11:22:33:44:55:66", "3.00", "10.0.0.3", "2", "aa:bb:cc:dd:ee:ff", "v1.2.1", "-58", "117000"),
	row("de:ad:be:ef:00:01", "0.75", "10.0.0.4", "3", "11:22:33:44:55:66", "v1.2.1", "-71", "90000"),
	"Devices reporting: 3",
}, "\n")

// aggregateLog holds loose device lines mixed with noise.
var aggregateLog = strings.Join([]string{
	"boot banner",
	"aa:bb:cc:dd:ee:ff 10.0 NA 3 NA 1 -40",
	"11:22:33:44:55:66 4.50 0.5 2 aa:bb:cc:dd:ee:ff 1 -70",
	"garbage line aa:bb",
	"AA:BB:CC:DD:EE:FF 20.0 NA 3 NA 1 -50",
	"11:22:33:44:55:66 5.50 0.5 2 de:ad:be:ef:00:01 1 -60",
}, "\n")
