package rbac

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/evalia-hr/evalia-console/internal/session"
)

// SessionSource exposes the current session snapshot to the guard.
type SessionSource interface {
	Snapshot() session.Session
}

// Guard layers the navigation state machine around protected screens. The
// decision is evaluated on every request, never cached, because the session
// and role can change between navigations.
type Guard struct {
	Sessions SessionSource
	Logger   *slog.Logger
}

// Protect wraps a screen with the guard: restore in flight renders the
// transient loading page, anonymous visitors go to login, and a failed
// capability check redirects to the role's default route.
func (g Guard) Protect(check func(CapabilitySet) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := g.Sessions.Snapshot()

			if sess.IsLoading {
				target := RouteLoading + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			if !sess.IsAuthenticated {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}

			caps := Capabilities(sess.User.RoleName())
			if check != nil && !check(caps) {
				if g.Logger != nil {
					g.Logger.Warn("navigation denied",
						slog.String("path", r.URL.Path),
						slog.String("role", sess.User.RoleName()))
				}
				http.Redirect(w, r, caps.DefaultRoute, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Capability checks used by the router.

func Dashboard(c CapabilitySet) bool     { return c.CanAccessDashboard }
func Employees(c CapabilitySet) bool     { return c.CanManageEmployees }
func Evaluations(c CapabilitySet) bool   { return c.CanManageEvaluations }
func MyEvaluations(c CapabilitySet) bool { return c.CanAccessMyEvaluations }
func Organization(c CapabilitySet) bool  { return c.AdminOnly }
