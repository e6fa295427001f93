package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/parent-node-finder/backend/internal/models"
)

// ErrUnknownSortKey is returned by ParseSortKey for unsupported names.
var ErrUnknownSortKey = errors.New("unknown sort key")

// ParseSortKey resolves a user-supplied sort key name.
func ParseSortKey(name string) (models.SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "identifier", "mac", "by_identifier":
		return models.SortByIdentifier, nil
	case "signal", "rssi", "by_signal_desc":
		return models.SortBySignalDesc, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSortKey, name)
}

// Sort returns a new slice ordered by key. The input is not modified.
// SortByIdentifier is ascending by MAC; SortBySignalDesc is descending by
// RSSI with ties kept in input order. Unknown keys sort by identifier.
func Sort(records []models.Record, key models.SortKey) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)

	switch key {
	case models.SortBySignalDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Signal > out[j].Signal
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Identifier < out[j].Identifier
		})
	}
	return out
}
