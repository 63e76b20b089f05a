package evaluation

import "time"

// Record is one employee evaluation as served by the HR API. Records are
// read-only to the console; the engine only derives values from them.
type Record struct {
	ID            int64     `json:"id"`
	EmployeeName  string    `json:"employee_name"`
	EvaluatorID   int64     `json:"evaluator_id"`
	EvaluatorName string    `json:"evaluator_name"`
	PeriodID      int64     `json:"period_id"`
	PeriodName    string    `json:"period_name"`
	Status        string    `json:"status"`
	DueDate       time.Time `json:"due_date"`
	WeightedScore *float64  `json:"weighted_score,omitempty"`
}

// Score returns the weighted score, treating an absent value as 0.
func (r Record) Score() float64 {
	if r.WeightedScore == nil {
		return 0
	}
	return *r.WeightedScore
}

// FilterState captures the dashboard filter controls. StatusAll disables
// status filtering. PeriodID is consumed by callers when choosing between the
// full and the period-scoped record fetch; Filter itself is period-agnostic.
type FilterState struct {
	Status      string
	Search      string
	EvaluatorID *int64
	PeriodID    *int64
}

// StatusAll is the filter value that matches every status.
const StatusAll = "all"

// Column identifies a sortable dashboard column.
type Column string

const (
	ColumnID          Column = "id"
	ColumnEmployee    Column = "employee"
	ColumnEvaluator   Column = "evaluator"
	ColumnPeriod      Column = "period"
	ColumnStatus      Column = "status"
	ColumnDueDate     Column = "due_date"
	ColumnScore       Column = "score"
	ColumnDaysOverdue Column = "days_overdue"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState pairs a column with a direction.
type SortState struct {
	Column    Column
	Direction Direction
}

// DefaultSort is the initial table ordering.
var DefaultSort = SortState{Column: ColumnID, Direction: Asc}
