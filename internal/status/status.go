// Package status defines the canonical evaluation status vocabulary and the
// normalizer that maps raw API tokens onto it.
package status

import (
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Canonical is the closed set of evaluation statuses the console reasons about.
type Canonical string

const (
	Pending    Canonical = "pending"
	InProgress Canonical = "in_progress"
	Completed  Canonical = "completed"
	Overdue    Canonical = "overdue"
)

// All lists the canonical statuses in display order.
var All = []Canonical{Pending, InProgress, Completed, Overdue}

// The HR API emits a mix of Spanish and English tokens depending on which
// backend wrote the record. Both vocabularies normalize to the same enum.
var vocabulary = map[string]Canonical{
	"pendiente":   Pending,
	"pending":     Pending,
	"en_progreso": InProgress,
	"in_progress": InProgress,
	"realizada":   Completed,
	"completed":   Completed,
	"atrasada":    Overdue,
	"overdue":     Overdue,
}

// Normalize maps a raw status token to its canonical value. Matching is
// case-insensitive and ignores surrounding whitespace. Unknown tokens fall
// back to Pending; Normalize never fails.
func Normalize(raw string) Canonical {
	if c, ok := vocabulary[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c
	}
	return Pending
}

// Known reports whether the raw token belongs to the recognized vocabulary.
func Known(raw string) bool {
	_, ok := vocabulary[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// Normalizer wraps Normalize with data-quality diagnostics: unknown tokens
// are logged and counted but still default to Pending.
type Normalizer struct {
	logger  *slog.Logger
	unknown prometheus.Counter
}

// NewNormalizer constructs a Normalizer. Both dependencies are optional.
func NewNormalizer(logger *slog.Logger, unknown prometheus.Counter) *Normalizer {
	return &Normalizer{logger: logger, unknown: unknown}
}

// Normalize behaves like the package function and additionally records a
// non-fatal data-quality warning for tokens outside the vocabulary.
func (n *Normalizer) Normalize(raw string) Canonical {
	if n == nil {
		return Normalize(raw)
	}
	if !Known(raw) {
		if n.logger != nil {
			n.logger.Warn("unrecognized evaluation status", slog.String("token", raw))
		}
		if n.unknown != nil {
			n.unknown.Inc()
		}
	}
	return Normalize(raw)
}

// Display carries the presentation metadata associated with a canonical
// status. The UI consumes it as a lookup by enum key.
type Display struct {
	Label string
	Color string
}

var displays = map[Canonical]Display{
	Pending:    {Label: "Pendiente", Color: "#f59e0b"},
	InProgress: {Label: "En progreso", Color: "#3b82f6"},
	Completed:  {Label: "Realizada", Color: "#10b981"},
	Overdue:    {Label: "Atrasada", Color: "#ef4444"},
}

// DisplayFor returns the display metadata for a canonical status.
func DisplayFor(c Canonical) Display {
	if d, ok := displays[c]; ok {
		return d
	}
	return displays[Pending]
}
