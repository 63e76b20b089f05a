// Package console serves the authenticated screens of the evaluation
// console: the dashboard, the evaluation and employee tables, the personal
// evaluations page and the organizational view. Every screen is read-only;
// the HR API remains the system of record.
package console

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evalia-hr/evalia-console/internal/analytics"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
	"github.com/evalia-hr/evalia-console/internal/platform/httpx"
	"github.com/evalia-hr/evalia-console/internal/rbac"
	"github.com/evalia-hr/evalia-console/internal/shared"
	"github.com/evalia-hr/evalia-console/internal/status"
	"github.com/evalia-hr/evalia-console/internal/view"
)

// Directory is the slice of the HR API serving the employee and department
// listings.
type Directory interface {
	ListEmployees(ctx context.Context, token string) ([]hrapi.Employee, error)
	ListDepartments(ctx context.Context, token string) ([]hrapi.Department, error)
}

// Handler owns the guarded console screens.
type Handler struct {
	logger     *slog.Logger
	sessions   rbac.SessionSource
	analytics  *analytics.Service
	directory  Directory
	templates  *view.Engine
	csrf       *shared.CSRFManager
	normalizer *status.Normalizer
	guard      rbac.Guard
}

// NewHandler wires the console screens with their dependencies.
func NewHandler(
	logger *slog.Logger,
	sessions rbac.SessionSource,
	analyticsService *analytics.Service,
	directory Directory,
	templates *view.Engine,
	csrf *shared.CSRFManager,
	normalizer *status.Normalizer,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		sessions:   sessions,
		analytics:  analyticsService,
		directory:  directory,
		templates:  templates,
		csrf:       csrf,
		normalizer: normalizer,
		guard:      rbac.Guard{Sessions: sessions, Logger: logger},
	}
}

// MountRoutes registers the guarded screens. The guard runs on every request
// so a session change takes effect on the next navigation.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route(rbac.RouteDashboard, func(r chi.Router) {
		r.Use(h.guard.Protect(rbac.Dashboard))
		r.Get("/", h.showDashboard)
		r.Post("/refresh", h.refreshDashboard)
	})
	r.With(h.guard.Protect(rbac.Evaluations)).Get(rbac.RouteEvaluations, h.showEvaluations)
	r.With(h.guard.Protect(rbac.Employees)).Get(rbac.RouteEmployees, h.showEmployees)
	r.With(h.guard.Protect(rbac.MyEvaluations)).Get(rbac.RouteMyEvaluations, h.showMyEvaluations)
	r.With(h.guard.Protect(rbac.Organization)).Get(rbac.RouteOrganization, h.showOrganization)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	sess := h.sessions.Snapshot()
	td := view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		ViewerName:  sess.User.FullName(),
		ViewerRole:  sess.User.RoleName(),
		Caps:        rbac.Capabilities(sess.User.RoleName()),
		Data:        data,
	}
	if websess := shared.WebSessionFromContext(r.Context()); websess != nil {
		if token, err := h.csrf.EnsureToken(r.Context(), websess); err == nil {
			td.CSRFToken = token
		}
		td.Flash = websess.PopFlash()
	}
	if err := h.templates.Render(w, page, td); err != nil {
		h.logger.Error("template render failed",
			slog.String("page", page),
			slog.Any("error", err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("console request failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	httpx.RespondError(w, err)
}
