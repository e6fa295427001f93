package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/parent-node-finder/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identifiers(records []models.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.Identifier
	}
	return ids
}

func TestParse_Snapshot(t *testing.T) {
	res, err := Parse(snapshotLog, "", "", models.ModeSnapshot)
	require.NoError(t, err)

	assert.Equal(t, models.ModeSnapshot, res.Mode)
	assert.Empty(t, res.Note)
	assert.Equal(t, 2, res.Reports)
	assert.Equal(t, 3, res.Count)
	require.NotNil(t, res.ReportTime)
	assert.Equal(t, time.Date(2025, 9, 25, 6, 3, 11, 1000, time.UTC), *res.ReportTime)

	assert.Equal(t, []string{"11:22:33:44:55:66", "aa:bb:cc:dd:ee:ff", "de:ad:be:ef:00:01"}, identifiers(res.Records))
	assert.Equal(t, -41.0, res.Records[1].Signal, "values come from the latest report")
	assert.Equal(t, "v1.2.1", res.Records[0].Extras[2])
}

func TestParse_SnapshotUsesLastBlock(t *testing.T) {
	block := func(rssi string) string {
		return strings.Join([]string{
			tableHeader,
			row("aa:bb:cc:dd:ee:ff", "1.00", "10.0.0.2", "1", "NA", "v1", rssi, "100"),
		}, "\n")
	}
	text := "2025-01-01 00:00:00.000001\n\n" + block("-55") + "\n2025-01-01 00:01:00.000001\n\n" + block("-40")

	res, err := Parse(text, "", "", models.ModeSnapshot)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, -40.0, res.Records[0].Signal)
	assert.Equal(t, 1, res.Count)
}

func TestParse_SnapshotRoots(t *testing.T) {
	res, err := Parse(snapshotLog, "AA:BB:CC:DD:EE:FF", "de:ad:be:ef:00:01", models.ModeSnapshot)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:22:33:44:55:66"}, identifiers(res.Records))
	assert.Equal(t, 1, res.Count)
}

func TestParse_SnapshotNoReports(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty input", ""},
		{"block without marker", "2025-01-01 00:00:00.000001\n\nnothing to see\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.text, "", "", models.ModeSnapshot)
			require.NoError(t, err)
			assert.Equal(t, models.NoteNoReports, res.Note)
			assert.NotNil(t, res.Records)
			assert.Empty(t, res.Records)
			assert.Zero(t, res.Count)
		})
	}
}

func TestParse_SnapshotAllRowsFiltered(t *testing.T) {
	text := tableHeader + "\n" + row("aa:bb:cc:dd:ee:ff", "1.00", "10.0.0.2", "1", "NA", "v1", "-40", "100")
	res, err := Parse(text, "aa:bb:cc:dd:ee:ff", "", models.ModeSnapshot)
	require.NoError(t, err)
	assert.Equal(t, models.NoteNoDevices, res.Note)
	assert.Empty(t, res.Records)
}

func TestParse_SnapshotMalformedRowDoesNotAbort(t *testing.T) {
	text := strings.Join([]string{
		tableHeader,
		row("aa:bb:cc:dd:ee:ff", "1.00", "10.0.0.2", "1", "NA"),
		row("11:22:33:44:55:66", "2.00", "10.0.0.3", "1", "NA", "v1", "-50", "100"),
	}, "\n")

	res, err := Parse(text, "", "", models.ModeSnapshot)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:22:33:44:55:66"}, identifiers(res.Records))
}

func TestParse_Aggregate(t *testing.T) {
	res, err := Parse(aggregateLog, "", "", models.ModeAggregate)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 2, res.Count)
	assert.Nil(t, res.ReportTime)

	dev := res.Records[0]
	assert.Equal(t, "11:22:33:44:55:66", dev.Identifier)
	assert.Equal(t, 5.0, dev.Rate)
	assert.Equal(t, -65.0, dev.Signal)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", dev.Parent)

	root := res.Records[1]
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", root.Identifier)
	assert.Equal(t, 15.0, root.Rate)
	assert.Equal(t, -45.0, root.Signal)
	assert.Equal(t, 2, root.Samples)
}

func TestParse_AggregateIgnoresReportFrames(t *testing.T) {
	text := "2025-01-01 00:00:00.000001\n\nno marker\naa:bb:cc:dd:ee:ff 10.0 NA 3 NA 1 -40\n" +
		"2025-01-01 00:01:00.000001\n\naa:bb:cc:dd:ee:ff 20.0 NA 3 NA 1 -40\n"

	res, err := Parse(text, "", "", models.ModeAggregate)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 15.0, res.Records[0].Rate)
}

func TestParse_AggregateRoots(t *testing.T) {
	res, err := Parse(aggregateLog, "aa:bb:cc:dd:ee:ff", "", models.ModeAggregate)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:22:33:44:55:66"}, identifiers(res.Records))
}

func TestParse_AggregateEmpty(t *testing.T) {
	res, err := Parse("", "", "", models.ModeAggregate)
	require.NoError(t, err)
	assert.Equal(t, models.NoteNoDevices, res.Note)
	assert.Empty(t, res.Records)
}

func TestParse_UnknownMode(t *testing.T) {
	_, err := Parse(snapshotLog, "", "", models.Mode("bogus"))
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestParse_Deterministic(t *testing.T) {
	for _, mode := range []models.Mode{models.ModeAggregate, models.ModeSnapshot} {
		text := snapshotLog + "\n" + aggregateLog
		first, err := Parse(text, "11:22:33:44:55:66", "", mode)
		require.NoError(t, err)
		second, err := Parse(text, "11:22:33:44:55:66", "", mode)
		require.NoError(t, err)
		assert.Equal(t, first, second, "mode %s", mode)

		for _, r := range first.Records {
			assert.NotEqual(t, "11:22:33:44:55:66", r.Identifier)
		}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("A")
	require.NoError(t, err)
	assert.Equal(t, models.ModeAggregate, m)

	m, err = ParseMode(" snapshot ")
	require.NoError(t, err)
	assert.Equal(t, models.ModeSnapshot, m)

	_, err = ParseMode("stream")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

type upperExtractor struct{}

func (upperExtractor) Name() string      { return "upper" }
func (upperExtractor) Mode() models.Mode { return models.ModeAggregate }
func (upperExtractor) Extract(string) []models.Record {
	return []models.Record{{Identifier: "ff:ff:ff:ff:ff:ff", Rate: 1}}
}

func TestEngine_CustomRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(upperExtractor{})
	assert.ElementsMatch(t, []models.Mode{models.ModeAggregate, models.ModeSnapshot}, reg.Modes())

	res, err := NewEngine(reg).Parse("anything", "", "", models.ModeAggregate)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "ff:ff:ff:ff:ff:ff", res.Records[0].Identifier)
}
