// Package auth serves the login, logout and loading screens around the
// session lifecycle manager.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/evalia-hr/evalia-console/internal/platform/httpx"
	"github.com/evalia-hr/evalia-console/internal/rbac"
	"github.com/evalia-hr/evalia-console/internal/session"
	"github.com/evalia-hr/evalia-console/internal/shared"
	"github.com/evalia-hr/evalia-console/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	manager     *session.Manager
	templates   *view.Engine
	webSessions *shared.WebSessionManager
	csrfManager *shared.CSRFManager
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, manager *session.Manager, templates *view.Engine, webSessions *shared.WebSessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		manager:     manager,
		templates:   templates,
		webSessions: webSessions,
		csrfManager: csrf,
		validator:   validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/loading", h.showLoading)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

type loadingPageData struct {
	Next string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if sess := h.manager.Snapshot(); sess.IsAuthenticated {
		http.Redirect(w, r, rbac.Capabilities(sess.User.RoleName()).DefaultRoute, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, loginPageData{Form: loginForm{}})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	formErrors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				formErrors[fieldErr.Field()] = fieldMessage(fieldErr.Field())
			}
		}
	}

	if len(formErrors) == 0 {
		err := h.manager.Login(r.Context(), form.Email, form.Password)
		switch {
		case err == nil:
			websess := shared.WebSessionFromContext(r.Context())
			if websess != nil {
				websess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Bienvenido de nuevo"})
			}
			role := h.manager.Snapshot().User.RoleName()
			http.Redirect(w, r, rbac.Capabilities(role).DefaultRoute, http.StatusSeeOther)
			return
		case errors.Is(err, httpx.ErrUnauthorized):
			formErrors["general"] = "Correo o contraseña incorrectos"
		case errors.Is(err, httpx.ErrServiceUnavailable):
			formErrors["general"] = "El servicio de RR. HH. no está disponible, intenta de nuevo en unos minutos"
		default:
			h.logger.Error("login failed", slog.Any("error", err))
			formErrors["general"] = "No se pudo iniciar sesión"
		}
	}

	form.Password = ""
	h.renderLogin(w, r, http.StatusBadRequest, loginPageData{Form: form, Errors: formErrors})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.manager.Logout(r.Context())
	if websess := shared.WebSessionFromContext(r.Context()); websess != nil {
		h.webSessions.Destroy(websess)
	}
	http.Redirect(w, r, rbac.RouteLogin, http.StatusSeeOther)
}

// showLoading is the transient screen shown while the startup restore is in
// flight. Once the restore settles, the visitor continues to the requested
// screen and the guard re-evaluates it.
func (h *Handler) showLoading(w http.ResponseWriter, r *http.Request) {
	next := sanitizeNext(r.URL.Query().Get("next"))
	sess := h.manager.Snapshot()
	if !sess.IsLoading {
		if next == "" {
			next = rbac.RouteLogin
			if sess.IsAuthenticated {
				next = rbac.Capabilities(sess.User.RoleName()).DefaultRoute
			}
		}
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	if next == "" {
		next = rbac.RouteLoading
	}
	viewData := view.TemplateData{
		Title:       "Restaurando sesión",
		CurrentPath: r.URL.Path,
		Data:        loadingPageData{Next: next},
	}
	if err := h.templates.Render(w, "pages/loading.html", viewData); err != nil {
		h.logger.Error("render loading", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, code int, data loginPageData) {
	viewData := view.TemplateData{
		Title:       "Iniciar sesión",
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if websess := shared.WebSessionFromContext(r.Context()); websess != nil {
		if token, err := h.csrfManager.EnsureToken(r.Context(), websess); err == nil {
			viewData.CSRFToken = token
		}
		viewData.Flash = websess.PopFlash()
	}
	if code != http.StatusOK {
		w.WriteHeader(code)
	}
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
	}
}

func fieldMessage(field string) string {
	switch field {
	case "Email":
		return "Ingresa un correo válido"
	case "Password":
		return "La contraseña debe tener al menos 8 caracteres"
	default:
		return "Valor inválido"
	}
}

// sanitizeNext keeps redirects on this host. Anything that is not a local
// path collapses to empty.
func sanitizeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
