package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeVocabulary(t *testing.T) {
	cases := map[string]Canonical{
		"pendiente":     Pending,
		"pending":       Pending,
		"en_progreso":   InProgress,
		"in_progress":   InProgress,
		"realizada":     Completed,
		"completed":     Completed,
		"atrasada":      Overdue,
		"overdue":       Overdue,
		"PENDIENTE":     Pending,
		"  Atrasada  ":  Overdue,
		"Realizada\t":   Completed,
		"EN_PROGRESO":   InProgress,
		"  in_progress": InProgress,
	}
	for raw, want := range cases {
		require.Equal(t, want, Normalize(raw), "token %q", raw)
	}
}

func TestNormalizeUnknownDefaultsToPending(t *testing.T) {
	for _, raw := range []string{"", "cancelada", "done", "n/a", "???"} {
		require.Equal(t, Pending, Normalize(raw), "token %q", raw)
		require.False(t, Known(raw), "token %q", raw)
	}
}

func TestNormalizerIsTotal(t *testing.T) {
	n := NewNormalizer(nil, nil)
	require.Equal(t, Overdue, n.Normalize("atrasada"))
	require.Equal(t, Pending, n.Normalize("rechazada"))

	// A nil normalizer still degrades to the pure mapping.
	var none *Normalizer
	require.Equal(t, Completed, none.Normalize("completed"))
}

func TestDisplayForCoversEnum(t *testing.T) {
	for _, c := range All {
		d := DisplayFor(c)
		require.NotEmpty(t, d.Label)
		require.NotEmpty(t, d.Color)
	}
	require.Equal(t, "Pendiente", DisplayFor(Canonical("bogus")).Label)
}
