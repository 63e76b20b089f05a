package console

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evalia-hr/evalia-console/internal/analytics"
	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
	"github.com/evalia-hr/evalia-console/internal/status"
)

// Row is one evaluation record shaped for the table templates. Status is
// already resolved to its display label and color; DaysOverdue is computed
// against the request time.
type Row struct {
	ID            int64
	EmployeeName  string
	EvaluatorName string
	PeriodName    string
	StatusLabel   string
	StatusColor   string
	DueDate       time.Time
	DaysOverdue   int
	Score         float64
}

// FilterView echoes the active filter controls back into the form. Fields
// stay strings so absent values render as empty inputs.
type FilterView struct {
	Status      string
	Search      string
	EvaluatorID string
}

// StatusOption is one entry of the status selector.
type StatusOption struct {
	Status status.Canonical
	Label  string
}

func statusOptions() []StatusOption {
	opts := make([]StatusOption, 0, len(status.All))
	for _, c := range status.All {
		opts = append(opts, StatusOption{Status: c, Label: status.DisplayFor(c).Label})
	}
	return opts
}

// TableData feeds the evaluation table pages. The dashboard additionally
// fills the widget fields; the other pages leave them zero.
type TableData struct {
	BasePath       string
	Filter         FilterView
	Sort           evaluation.SortState
	SelectedPeriod int64
	Statuses       []StatusOption
	Periods        []hrapi.Period
	Rows           []Row
	Distribution   []analytics.StatusCount
	Summaries      []hrapi.DepartmentSummary
	Trend          int
	TrendKnown     bool
}

// SortLink builds a column header link. Clicking the column that is already
// sorted ascending flips it to descending; any other column starts ascending.
// The active filter survives in the query string.
func (d TableData) SortLink(column string) string {
	vals := url.Values{}
	if d.Filter.Status != "" {
		vals.Set("status", d.Filter.Status)
	}
	if d.Filter.Search != "" {
		vals.Set("q", d.Filter.Search)
	}
	if d.Filter.EvaluatorID != "" {
		vals.Set("evaluator", d.Filter.EvaluatorID)
	}
	if d.SelectedPeriod != 0 {
		vals.Set("period", strconv.FormatInt(d.SelectedPeriod, 10))
	}
	dir := evaluation.Asc
	if d.Sort.Column == evaluation.Column(column) && d.Sort.Direction == evaluation.Asc {
		dir = evaluation.Desc
	}
	vals.Set("sort", column)
	vals.Set("dir", string(dir))
	return d.BasePath + "?" + vals.Encode()
}

// PersonalData feeds the personal evaluations page.
type PersonalData struct {
	Rows       []Row
	Trend      int
	TrendKnown bool
}

// DirectoryData feeds the employee directory page.
type DirectoryData struct {
	Employees []hrapi.Employee
}

// OrganizationData feeds the organizational configuration page.
type OrganizationData struct {
	Departments []hrapi.Department
}

var sortableColumns = map[evaluation.Column]bool{
	evaluation.ColumnID:          true,
	evaluation.ColumnEmployee:    true,
	evaluation.ColumnEvaluator:   true,
	evaluation.ColumnPeriod:      true,
	evaluation.ColumnStatus:      true,
	evaluation.ColumnDueDate:     true,
	evaluation.ColumnScore:       true,
	evaluation.ColumnDaysOverdue: true,
}

// parseFilter reads the filter controls from the query string. Malformed
// numeric values are treated as absent rather than rejected.
func parseFilter(r *http.Request) (evaluation.FilterState, FilterView) {
	q := r.URL.Query()
	st := strings.TrimSpace(q.Get("status"))
	if st == "" {
		st = evaluation.StatusAll
	}
	state := evaluation.FilterState{Status: st, Search: q.Get("q")}
	echo := FilterView{Status: st, Search: q.Get("q")}
	if raw := q.Get("evaluator"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			state.EvaluatorID = &id
			echo.EvaluatorID = raw
		}
	}
	if raw := q.Get("period"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			state.PeriodID = &id
		}
	}
	return state, echo
}

// parseSort reads the sort controls, falling back to the default ordering for
// unknown columns.
func parseSort(r *http.Request) evaluation.SortState {
	q := r.URL.Query()
	col := evaluation.Column(q.Get("sort"))
	if !sortableColumns[col] {
		return evaluation.DefaultSort
	}
	dir := evaluation.Asc
	if q.Get("dir") == string(evaluation.Desc) {
		dir = evaluation.Desc
	}
	return evaluation.SortState{Column: col, Direction: dir}
}

func selectedPeriod(f evaluation.FilterState) int64 {
	if f.PeriodID == nil {
		return 0
	}
	return *f.PeriodID
}

func (h *Handler) buildRows(records []evaluation.Record, now time.Time) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		d := status.DisplayFor(h.normalizer.Normalize(rec.Status))
		rows = append(rows, Row{
			ID:            rec.ID,
			EmployeeName:  rec.EmployeeName,
			EvaluatorName: rec.EvaluatorName,
			PeriodName:    rec.PeriodName,
			StatusLabel:   d.Label,
			StatusColor:   d.Color,
			DueDate:       rec.DueDate,
			DaysOverdue:   evaluation.RecordDaysOverdue(rec, now),
			Score:         rec.Score(),
		})
	}
	return rows
}
