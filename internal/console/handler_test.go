package console

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/evalia-hr/evalia-console/internal/analytics"
	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
	"github.com/evalia-hr/evalia-console/internal/rbac"
	"github.com/evalia-hr/evalia-console/internal/session"
	"github.com/evalia-hr/evalia-console/internal/shared"
	"github.com/evalia-hr/evalia-console/internal/status"
	"github.com/evalia-hr/evalia-console/internal/view"
)

type fakeSessions struct {
	sess session.Session
}

func (f fakeSessions) Snapshot() session.Session { return f.sess }

type fakeSource struct {
	records   []evaluation.Record
	personal  []evaluation.Record
	periods   []hrapi.Period
	summaries []hrapi.DepartmentSummary
	history   []float64
	orgHist   []float64
}

func (f *fakeSource) ListEvaluations(ctx context.Context, token string) ([]evaluation.Record, error) {
	return f.records, nil
}

func (f *fakeSource) ListEvaluationsByPeriod(ctx context.Context, token string, periodID int64) ([]evaluation.Record, error) {
	var scoped []evaluation.Record
	for _, r := range f.records {
		if r.PeriodID == periodID {
			scoped = append(scoped, r)
		}
	}
	return scoped, nil
}

func (f *fakeSource) ListEvaluationsByEmployee(ctx context.Context, token string, employeeID int64) ([]evaluation.Record, error) {
	return f.personal, nil
}

func (f *fakeSource) ListPeriods(ctx context.Context, token string) ([]hrapi.Period, error) {
	return f.periods, nil
}

func (f *fakeSource) DepartmentSummaries(ctx context.Context, token string) ([]hrapi.DepartmentSummary, error) {
	return f.summaries, nil
}

func (f *fakeSource) ScoreHistory(ctx context.Context, token string, employeeID int64) ([]float64, error) {
	return f.history, nil
}

func (f *fakeSource) OrgScoreHistory(ctx context.Context, token string) ([]float64, error) {
	return f.orgHist, nil
}

type fakeDirectory struct {
	employees   []hrapi.Employee
	departments []hrapi.Department
}

func (f *fakeDirectory) ListEmployees(ctx context.Context, token string) ([]hrapi.Employee, error) {
	return f.employees, nil
}

func (f *fakeDirectory) ListDepartments(ctx context.Context, token string) ([]hrapi.Department, error) {
	return f.departments, nil
}

func managerSession() session.Session {
	return session.Session{
		Token:           "tok",
		IsAuthenticated: true,
		User: hrapi.User{
			ID:        7,
			FirstName: "Ana",
			LastName:  "Ruiz",
			Role:      hrapi.Role{Name: "hr_manager"},
		},
	}
}

func scorePtr(v float64) *float64 { return &v }

func testRecords(now time.Time) []evaluation.Record {
	return []evaluation.Record{
		{ID: 1, EmployeeName: "José Pérez", EvaluatorID: 10, EvaluatorName: "Ana Ruiz", PeriodID: 1, PeriodName: "2026-Q1", Status: "atrasada", DueDate: now.AddDate(0, 0, -5), WeightedScore: scorePtr(72)},
		{ID: 2, EmployeeName: "María García", EvaluatorID: 11, EvaluatorName: "Luis Soto", PeriodID: 1, PeriodName: "2026-Q1", Status: "realizada", DueDate: now.AddDate(0, 0, -1), WeightedScore: scorePtr(88)},
		{ID: 3, EmployeeName: "Pedro López", EvaluatorID: 10, EvaluatorName: "Ana Ruiz", PeriodID: 2, PeriodName: "2026-Q2", Status: "pendiente", DueDate: now.AddDate(0, 0, 3)},
	}
}

func newTestRouter(t *testing.T, sessions rbac.SessionSource, source analytics.Source, directory Directory) chi.Router {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	h := NewHandler(
		logger,
		sessions,
		analytics.NewService(source, nil),
		directory,
		templates,
		shared.NewCSRFManager("console-test-secret"),
		status.NewNormalizer(logger, nil),
	)
	router := chi.NewRouter()
	h.MountRoutes(router)
	return router
}

func TestDashboardRendersWidgetsAndRows(t *testing.T) {
	now := time.Now()
	source := &fakeSource{
		records:   testRecords(now),
		periods:   []hrapi.Period{{ID: 1, Name: "2026-Q1"}, {ID: 2, Name: "2026-Q2"}},
		summaries: []hrapi.DepartmentSummary{{Department: "Ventas", Evaluations: 3, AverageScore: 80.5}},
		orgHist:   []float64{110, 100},
	}
	router := newTestRouter(t, fakeSessions{sess: managerSession()}, source, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "José Pérez")
	require.Contains(t, body, "Atrasada")
	require.Contains(t, body, "Distribución por estado")
	require.Contains(t, body, "10%")
	require.Contains(t, body, "Ventas")
}

func TestDashboardZeroBaselineHidesTrend(t *testing.T) {
	now := time.Now()
	source := &fakeSource{records: testRecords(now), orgHist: []float64{80, 0}}
	router := newTestRouter(t, fakeSessions{sess: managerSession()}, source, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sin datos suficientes")
}

func TestDashboardStatusFilter(t *testing.T) {
	now := time.Now()
	source := &fakeSource{records: testRecords(now)}
	router := newTestRouter(t, fakeSessions{sess: managerSession()}, source, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?status=overdue", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "José Pérez")
	require.NotContains(t, body, "María García")
}

func TestDashboardRedirectsAnonymousVisitors(t *testing.T) {
	router := newTestRouter(t, fakeSessions{}, &fakeSource{}, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, rbac.RouteLogin, rec.Header().Get("Location"))
}

func TestRefreshRejectsMissingCSRFToken(t *testing.T) {
	router := newTestRouter(t, fakeSessions{sess: managerSession()}, &fakeSource{}, &fakeDirectory{})

	req := httptest.NewRequest(http.MethodPost, "/dashboard/refresh", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshRedirectsBackToDashboard(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	manager := shared.NewWebSessionManager(client, "evalia_session", time.Hour, false)
	websess, err := manager.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	csrf := shared.NewCSRFManager("console-test-secret")
	token, err := csrf.EnsureToken(context.Background(), websess)
	require.NoError(t, err)

	router := newTestRouter(t, fakeSessions{sess: managerSession()}, &fakeSource{}, &fakeDirectory{})

	form := url.Values{shared.CSRFFormField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/refresh", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(shared.ContextWithWebSession(req.Context(), websess))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, rbac.RouteDashboard, rec.Header().Get("Location"))
}

func TestEvaluationsEchoesEvaluatorFilter(t *testing.T) {
	now := time.Now()
	source := &fakeSource{records: testRecords(now)}
	router := newTestRouter(t, fakeSessions{sess: managerSession()}, source, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/evaluations?evaluator=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `value="10"`)
	require.Contains(t, body, "José Pérez")
	require.NotContains(t, body, "María García")
}

func TestEmployeesPageListsDirectory(t *testing.T) {
	directory := &fakeDirectory{employees: []hrapi.Employee{
		{ID: 1, FullName: "José Pérez", Email: "jose@example.com", Position: "Analista", Department: "Ventas", IsActive: true},
	}}
	router := newTestRouter(t, fakeSessions{sess: managerSession()}, &fakeSource{}, directory)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "jose@example.com")
}

func TestMyEvaluationsShowsPersonalTrend(t *testing.T) {
	now := time.Now()
	employee := session.Session{
		Token:           "tok",
		IsAuthenticated: true,
		User: hrapi.User{
			ID:        5,
			FirstName: "Pedro",
			LastName:  "López",
			Role:      hrapi.Role{Name: "employee"},
		},
	}
	source := &fakeSource{
		personal: []evaluation.Record{
			{ID: 9, EvaluatorName: "Ana Ruiz", PeriodName: "2026-Q2", Status: "en_progreso", DueDate: now.AddDate(0, 0, 2)},
		},
		history: []float64{90, 75},
	}
	router := newTestRouter(t, fakeSessions{sess: employee}, source, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my-evaluations", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "En progreso")
	require.Contains(t, body, "20%")
}

func TestOrganizationRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, fakeSessions{sess: managerSession()}, &fakeSource{}, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/organization", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, rbac.RouteDashboard, rec.Header().Get("Location"))
}

func TestSortLinkTogglesDirection(t *testing.T) {
	data := TableData{
		BasePath: rbac.RouteDashboard,
		Filter:   FilterView{Status: "overdue", Search: "pérez"},
		Sort:     evaluation.SortState{Column: evaluation.ColumnScore, Direction: evaluation.Asc},
	}

	link, err := url.Parse(data.SortLink("score"))
	require.NoError(t, err)
	q := link.Query()
	require.Equal(t, "desc", q.Get("dir"))
	require.Equal(t, "score", q.Get("sort"))
	require.Equal(t, "overdue", q.Get("status"))
	require.Equal(t, "pérez", q.Get("q"))

	// A different column resets to ascending.
	link, err = url.Parse(data.SortLink("employee"))
	require.NoError(t, err)
	require.Equal(t, "asc", link.Query().Get("dir"))
}
