// Package evaluation holds the pure filter/sort engine behind the evaluation
// tables. Every function copies before it mutates; callers can reuse the same
// base collection across repeated calls.
package evaluation

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/evalia-hr/evalia-console/internal/status"
)

// Filter applies the filter state to records: status equality on the
// normalized status, substring match on the employee name, evaluator
// equality. All conditions are AND-combined. The input slice is not mutated.
func Filter(records []Record, f FilterState) []Record {
	out := make([]Record, 0, len(records))
	search := searchFold(f.Search)
	for _, r := range records {
		if f.Status != "" && f.Status != StatusAll {
			if status.Normalize(r.Status) != status.Canonical(f.Status) {
				continue
			}
		}
		if search != "" && !strings.Contains(searchFold(r.EmployeeName), search) {
			continue
		}
		if f.EvaluatorID != nil && r.EvaluatorID != *f.EvaluatorID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sort returns a stably sorted copy of records. Ties keep their input order,
// so repeated sorts from the same base set are order-independent.
func Sort(records []Record, s SortState, now time.Time) []Record {
	out := append([]Record(nil), records...)
	cmp := comparator(s.Column, now)
	dir := 1
	if s.Direction == Desc {
		dir = -1
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dir*cmp(out[i], out[j]) < 0
	})
	return out
}

// DaysOverdue reports how many whole days past due a date is at the given
// instant. On-time and future due dates yield 0, never a negative number.
func DaysOverdue(due, now time.Time) int {
	if due.IsZero() || !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

// RecordDaysOverdue derives the days-overdue column: only records whose
// normalized status is overdue contribute, everything else counts as 0.
func RecordDaysOverdue(r Record, now time.Time) int {
	if status.Normalize(r.Status) != status.Overdue {
		return 0
	}
	return DaysOverdue(r.DueDate, now)
}

func comparator(col Column, now time.Time) func(a, b Record) int {
	switch col {
	case ColumnScore:
		return func(a, b Record) int { return compareFloat(a.Score(), b.Score()) }
	case ColumnDaysOverdue:
		return func(a, b Record) int {
			return compareFloat(float64(RecordDaysOverdue(a, now)), float64(RecordDaysOverdue(b, now)))
		}
	default:
		key := stringKey(col)
		return func(a, b Record) int { return strings.Compare(key(a), key(b)) }
	}
}

// stringKey renders a column as its case-sensitive string representation.
func stringKey(col Column) func(Record) string {
	switch col {
	case ColumnEmployee:
		return func(r Record) string { return r.EmployeeName }
	case ColumnEvaluator:
		return func(r Record) string { return r.EvaluatorName }
	case ColumnPeriod:
		return func(r Record) string { return r.PeriodName }
	case ColumnStatus:
		return func(r Record) string { return string(status.Normalize(r.Status)) }
	case ColumnDueDate:
		return func(r Record) string { return r.DueDate.Format(time.RFC3339) }
	default:
		return func(r Record) string { return strconv.FormatInt(r.ID, 10) }
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// searchFold lower-cases and strips diacritics so "jose" matches "José".
// Transformers carry state, so the chain is built per call.
func searchFold(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
