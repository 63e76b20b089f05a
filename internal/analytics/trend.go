package analytics

import (
	"errors"
	"math"
)

// ErrZeroBaseline signals a trend computation whose previous-period score is
// zero. Callers must guard and render the widget empty rather than fall back
// to a made-up 0% or an infinity.
var ErrZeroBaseline = errors.New("analytics: trend baseline is zero")

// PerformanceTrend computes the percentage movement between the two most
// recent scores. History is ordered most-recent-first: index 0 is the latest
// period, index 1 the one before it. Fewer than two points yields 0.
func PerformanceTrend(history []float64) (int, error) {
	if len(history) < 2 {
		return 0, nil
	}
	latest, previous := history[0], history[1]
	if previous == 0 {
		return 0, ErrZeroBaseline
	}
	return int(math.Round(((latest - previous) / previous) * 100)), nil
}
