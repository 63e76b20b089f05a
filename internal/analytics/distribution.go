// Package analytics turns evaluation records into the chart-ready summaries
// the dashboard renders: status distributions and performance trends.
package analytics

import (
	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/status"
)

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status status.Canonical `json:"status"`
	Label  string           `json:"label"`
	Color  string           `json:"color"`
	Count  int              `json:"count"`
}

// StatusDistribution groups records by normalized status. Only statuses
// present in the input produce an entry; output follows canonical enum order
// so the chart legend is deterministic. Counts always sum to len(records).
func StatusDistribution(records []evaluation.Record) []StatusCount {
	counts := make(map[status.Canonical]int, len(status.All))
	for _, r := range records {
		counts[status.Normalize(r.Status)]++
	}
	out := make([]StatusCount, 0, len(counts))
	for _, c := range status.All {
		n, ok := counts[c]
		if !ok {
			continue
		}
		d := status.DisplayFor(c)
		out = append(out, StatusCount{Status: c, Label: d.Label, Color: d.Color, Count: n})
	}
	return out
}
