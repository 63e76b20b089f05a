package analytics

import (
	"context"

	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
)

// Source is the slice of the HR API the dashboard queries go through.
type Source interface {
	ListEvaluations(ctx context.Context, token string) ([]evaluation.Record, error)
	ListEvaluationsByPeriod(ctx context.Context, token string, periodID int64) ([]evaluation.Record, error)
	ListEvaluationsByEmployee(ctx context.Context, token string, employeeID int64) ([]evaluation.Record, error)
	ListPeriods(ctx context.Context, token string) ([]hrapi.Period, error)
	DepartmentSummaries(ctx context.Context, token string) ([]hrapi.DepartmentSummary, error)
	ScoreHistory(ctx context.Context, token string, employeeID int64) ([]float64, error)
	OrgScoreHistory(ctx context.Context, token string) ([]float64, error)
}

// Service coordinates HR API reads with the cache layer. It performs no
// writes; records pass through to the pure engine untouched.
type Service struct {
	source Source
	cache  *Cache
}

// NewService wires a Source with a Cache helper.
func NewService(source Source, cache *Cache) *Service {
	return &Service{source: source, cache: cache}
}

// Records returns the full record set, or the period-scoped set when a
// period is selected. Scoping by period happens here, at the fetch, so the
// filter engine stays period-agnostic.
func (s *Service) Records(ctx context.Context, token string, periodID *int64) ([]evaluation.Record, error) {
	parts := []string{"evalia", "evaluations", "all"}
	loader := func(ctx context.Context) (interface{}, error) {
		return s.source.ListEvaluations(ctx, token)
	}
	if periodID != nil {
		id := *periodID
		parts = []string{"evalia", "evaluations", "period", formatID(id)}
		loader = func(ctx context.Context) (interface{}, error) {
			return s.source.ListEvaluationsByPeriod(ctx, token, id)
		}
	}
	var records []evaluation.Record
	if err := s.fetch(ctx, parts, &records, loader); err != nil {
		return nil, err
	}
	return records, nil
}

// EmployeeRecords returns the personal record set for one employee.
func (s *Service) EmployeeRecords(ctx context.Context, token string, employeeID int64) ([]evaluation.Record, error) {
	var records []evaluation.Record
	err := s.fetch(ctx, []string{"evalia", "evaluations", "employee", formatID(employeeID)}, &records,
		func(ctx context.Context) (interface{}, error) {
			return s.source.ListEvaluationsByEmployee(ctx, token, employeeID)
		})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Periods returns the evaluation periods for the period selector.
func (s *Service) Periods(ctx context.Context, token string) ([]hrapi.Period, error) {
	var periods []hrapi.Period
	err := s.fetch(ctx, []string{"evalia", "periods"}, &periods,
		func(ctx context.Context) (interface{}, error) {
			return s.source.ListPeriods(ctx, token)
		})
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// Summaries returns the backend-computed department aggregates, consumed
// as-is by the dashboard.
func (s *Service) Summaries(ctx context.Context, token string) ([]hrapi.DepartmentSummary, error) {
	var summaries []hrapi.DepartmentSummary
	err := s.fetch(ctx, []string{"evalia", "summaries", "departments"}, &summaries,
		func(ctx context.Context) (interface{}, error) {
			return s.source.DepartmentSummaries(ctx, token)
		})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Trend fetches an employee's score history and computes the movement
// percentage. ErrZeroBaseline passes through for the caller to guard.
func (s *Service) Trend(ctx context.Context, token string, employeeID int64) (int, error) {
	var history []float64
	err := s.fetch(ctx, []string{"evalia", "history", formatID(employeeID)}, &history,
		func(ctx context.Context) (interface{}, error) {
			return s.source.ScoreHistory(ctx, token, employeeID)
		})
	if err != nil {
		return 0, err
	}
	return PerformanceTrend(history)
}

// OrgTrend computes the organization-wide movement percentage.
func (s *Service) OrgTrend(ctx context.Context, token string) (int, error) {
	var history []float64
	err := s.fetch(ctx, []string{"evalia", "history", "org"}, &history,
		func(ctx context.Context) (interface{}, error) {
			return s.source.OrgScoreHistory(ctx, token)
		})
	if err != nil {
		return 0, err
	}
	return PerformanceTrend(history)
}

// Refresh drops every cached dashboard value.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) fetch(ctx context.Context, parts []string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}
