package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evalia-hr/evalia-console/internal/hrapi"
	"github.com/evalia-hr/evalia-console/internal/session"
)

type staticSessions struct {
	sess session.Session
}

func (s staticSessions) Snapshot() session.Session { return s.sess }

func serveGuarded(t *testing.T, sess session.Session, check func(CapabilitySet) bool, path string) *httptest.ResponseRecorder {
	t.Helper()
	g := Guard{Sessions: staticSessions{sess: sess}}
	handler := g.Protect(check)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	rec := serveGuarded(t, session.Session{}, Dashboard, "/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteLogin, rec.Header().Get("Location"))
}

func TestGuardHoldsNavigationDuringRestore(t *testing.T) {
	rec := serveGuarded(t, session.Session{IsLoading: true}, Dashboard, "/dashboard?status=overdue")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteLoading+"?next=%2Fdashboard%3Fstatus%3Doverdue", rec.Header().Get("Location"))
}

func TestGuardRedirectsDeniedRoleToDefaultRoute(t *testing.T) {
	sess := session.Session{
		IsAuthenticated: true,
		User:            hrapi.User{Role: hrapi.Role{Name: "employee"}},
	}
	rec := serveGuarded(t, sess, Dashboard, "/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteMyEvaluations, rec.Header().Get("Location"))
}

func TestGuardPassesAllowedRole(t *testing.T) {
	sess := session.Session{
		IsAuthenticated: true,
		User:            hrapi.User{Role: hrapi.Role{Name: "hr_manager"}},
	}
	rec := serveGuarded(t, sess, Dashboard, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	// Organization stays admin only.
	rec = serveGuarded(t, sess, Organization, "/organization")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteDashboard, rec.Header().Get("Location"))
}

func TestGuardEvaluatesEveryNavigation(t *testing.T) {
	source := &switchingSessions{}
	g := Guard{Sessions: source}
	handler := g.Protect(Dashboard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	source.sess = session.Session{IsAuthenticated: true, User: hrapi.User{Role: hrapi.Role{Name: "admin"}}}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout-then-different-login must change the decision without rebuilding
	// the handler.
	source.sess = session.Session{IsAuthenticated: true, User: hrapi.User{Role: hrapi.Role{Name: "employee"}}}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteMyEvaluations, rec.Header().Get("Location"))
}

type switchingSessions struct {
	sess session.Session
}

func (s *switchingSessions) Snapshot() session.Session { return s.sess }
