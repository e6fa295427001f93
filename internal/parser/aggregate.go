package parser

import "github.com/parent-node-finder/backend/internal/models"

type aggregateGroup struct {
	first   models.Record
	rateSum float64
	rssiSum float64
	n       int
}

// Aggregate merges records sharing a MAC into one summary per device.
// Rate and RSSI become the mean of the group rounded to two decimals; the
// parent is taken from the first record seen for that MAC. Output follows
// first-seen order; callers sort afterwards.
func Aggregate(records []models.Record) []models.Record {
	groups := make(map[string]*aggregateGroup, len(records))
	order := make([]string, 0)

	for _, rec := range records {
		key := NormalizeMAC(rec.Identifier)
		g, ok := groups[key]
		if !ok {
			g = &aggregateGroup{first: rec}
			groups[key] = g
			order = append(order, key)
		}
		g.rateSum += rec.Rate
		g.rssiSum += rec.Signal
		g.n++
	}

	out := make([]models.Record, 0, len(order))
	for _, key := range order {
		g := groups[key]
		out = append(out, models.Record{
			Identifier: key,
			Rate:       round2(g.rateSum / float64(g.n)),
			Signal:     round2(g.rssiSum / float64(g.n)),
			Parent:     g.first.Parent,
			Samples:    g.n,
		})
	}
	return out
}
