package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
)

type mockSource struct {
	records       []evaluation.Record
	recordCalls   int
	periodRecords map[int64][]evaluation.Record
	periodCalls   int
	history       []float64
	historyCalls  int
	summaries     []hrapi.DepartmentSummary
	summaryCalls  int
	periods       []hrapi.Period
}

func (m *mockSource) ListEvaluations(ctx context.Context, token string) ([]evaluation.Record, error) {
	m.recordCalls++
	return m.records, nil
}

func (m *mockSource) ListEvaluationsByPeriod(ctx context.Context, token string, periodID int64) ([]evaluation.Record, error) {
	m.periodCalls++
	return m.periodRecords[periodID], nil
}

func (m *mockSource) ListEvaluationsByEmployee(ctx context.Context, token string, employeeID int64) ([]evaluation.Record, error) {
	return m.records, nil
}

func (m *mockSource) ListPeriods(ctx context.Context, token string) ([]hrapi.Period, error) {
	return m.periods, nil
}

func (m *mockSource) DepartmentSummaries(ctx context.Context, token string) ([]hrapi.DepartmentSummary, error) {
	m.summaryCalls++
	return m.summaries, nil
}

func (m *mockSource) ScoreHistory(ctx context.Context, token string, employeeID int64) ([]float64, error) {
	m.historyCalls++
	return m.history, nil
}

func (m *mockSource) OrgScoreHistory(ctx context.Context, token string) ([]float64, error) {
	m.historyCalls++
	return m.history, nil
}

func newTestService(t *testing.T, source Source) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(source, NewCache(client, time.Minute))
}

func TestRecordsCachesFullSet(t *testing.T) {
	source := &mockSource{records: []evaluation.Record{{ID: 1, Status: "pendiente"}}}
	svc := newTestService(t, source)
	ctx := context.Background()

	records, err := svc.Records(ctx, "tok", nil)
	if err != nil {
		t.Fatalf("records error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record got %d", len(records))
	}
	if source.recordCalls != 1 {
		t.Fatalf("expected 1 source call, got %d", source.recordCalls)
	}

	// Second call should hit cache.
	if _, err := svc.Records(ctx, "tok", nil); err != nil {
		t.Fatalf("records cache error: %v", err)
	}
	if source.recordCalls != 1 {
		t.Fatalf("expected cached result, source called %d times", source.recordCalls)
	}

	// Refresh invalidates.
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := svc.Records(ctx, "tok", nil); err != nil {
		t.Fatalf("records reload error: %v", err)
	}
	if source.recordCalls != 2 {
		t.Fatalf("expected source to refresh, calls %d", source.recordCalls)
	}
}

func TestRecordsPeriodScopedFetch(t *testing.T) {
	source := &mockSource{
		records: []evaluation.Record{{ID: 1}, {ID: 2}},
		periodRecords: map[int64][]evaluation.Record{
			7: {{ID: 2, PeriodID: 7}},
		},
	}
	svc := newTestService(t, source)
	ctx := context.Background()

	period := int64(7)
	scoped, err := svc.Records(ctx, "tok", &period)
	if err != nil {
		t.Fatalf("scoped records error: %v", err)
	}
	if len(scoped) != 1 || scoped[0].PeriodID != 7 {
		t.Fatalf("unexpected scoped records %#v", scoped)
	}
	if source.periodCalls != 1 || source.recordCalls != 0 {
		t.Fatalf("expected period fetch only, got full=%d period=%d", source.recordCalls, source.periodCalls)
	}

	// Full and scoped sets cache under distinct keys.
	full, err := svc.Records(ctx, "tok", nil)
	if err != nil {
		t.Fatalf("full records error: %v", err)
	}
	if len(full) != 2 {
		t.Fatalf("expected 2 full records got %d", len(full))
	}
}

func TestTrendComputesFromHistory(t *testing.T) {
	source := &mockSource{history: []float64{80, 100}}
	svc := newTestService(t, source)

	trend, err := svc.Trend(context.Background(), "tok", 7)
	if err != nil {
		t.Fatalf("trend error: %v", err)
	}
	if trend != -20 {
		t.Fatalf("expected -20 got %d", trend)
	}
}

func TestTrendSignalsZeroBaseline(t *testing.T) {
	source := &mockSource{history: []float64{80, 0}}
	svc := newTestService(t, source)

	if _, err := svc.Trend(context.Background(), "tok", 7); err != ErrZeroBaseline {
		t.Fatalf("expected ErrZeroBaseline got %v", err)
	}
}

func TestServiceWorksWithoutCache(t *testing.T) {
	source := &mockSource{summaries: []hrapi.DepartmentSummary{{Department: "Ventas", Evaluations: 4, AverageScore: 81.5}}}
	svc := NewService(source, nil)

	summaries, err := svc.Summaries(context.Background(), "tok")
	if err != nil {
		t.Fatalf("summaries error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Department != "Ventas" {
		t.Fatalf("unexpected summaries %#v", summaries)
	}
}
