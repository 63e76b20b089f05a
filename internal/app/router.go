package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/evalia-hr/evalia-console/internal/auth"
	"github.com/evalia-hr/evalia-console/internal/console"
	"github.com/evalia-hr/evalia-console/internal/observability"
	"github.com/evalia-hr/evalia-console/internal/rbac"
	"github.com/evalia-hr/evalia-console/internal/session"
	"github.com/evalia-hr/evalia-console/internal/shared"
	"github.com/evalia-hr/evalia-console/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	WebSessions    *shared.WebSessionManager
	CSRFManager    *shared.CSRFManager
	SessionManager *session.Manager
	AuthHandler    *auth.Handler
	ConsoleHandler *console.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:      params.Logger,
		Config:      params.Config,
		WebSessions: params.WebSessions,
		CSRFManager: params.CSRFManager,
		Metrics:     params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The root route resolves to wherever the session says the visitor
	// belongs: the loading screen mid-restore, the role's default route when
	// authenticated, login otherwise.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := params.SessionManager.Snapshot()
		switch {
		case sess.IsLoading:
			http.Redirect(w, r, rbac.RouteLoading, http.StatusSeeOther)
		case sess.IsAuthenticated:
			http.Redirect(w, r, rbac.Capabilities(sess.User.RoleName()).DefaultRoute, http.StatusSeeOther)
		default:
			http.Redirect(w, r, rbac.RouteLogin, http.StatusSeeOther)
		}
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	params.ConsoleHandler.MountRoutes(r)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers so the
// embedded assets stay cacheable for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
