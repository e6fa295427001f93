package parser

import "github.com/parent-node-finder/backend/internal/models"

// FilterRoots drops every record whose MAC equals root1 or root2, compared
// case-insensitively. Empty roots match nothing. Order is preserved.
func FilterRoots(records []models.Record, root1, root2 string) []models.Record {
	roots := make(map[string]struct{}, 2)
	for _, r := range []string{root1, root2} {
		if n := NormalizeMAC(r); n != "" {
			roots[n] = struct{}{}
		}
	}

	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if _, isRoot := roots[NormalizeMAC(rec.Identifier)]; isRoot {
			continue
		}
		out = append(out, rec)
	}
	return out
}
