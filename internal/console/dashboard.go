package console

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evalia-hr/evalia-console/internal/analytics"
	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
	"github.com/evalia-hr/evalia-console/internal/platform/httpx"
	"github.com/evalia-hr/evalia-console/internal/rbac"
	"github.com/evalia-hr/evalia-console/internal/shared"
)

// showDashboard renders the manager dashboard: the filtered record table plus
// the status distribution, the organization-wide trend and the department
// summaries. The four upstream reads fan out concurrently.
func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Snapshot()
	filter, echo := parseFilter(r)
	sortState := parseSort(r)

	var (
		records    []evaluation.Record
		periods    []hrapi.Period
		summaries  []hrapi.DepartmentSummary
		trend      int
		trendKnown bool
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		records, err = h.analytics.Records(ctx, sess.Token, filter.PeriodID)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = h.analytics.Periods(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		summaries, err = h.analytics.Summaries(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		t, err := h.analytics.OrgTrend(ctx, sess.Token)
		if errors.Is(err, analytics.ErrZeroBaseline) {
			// The widget renders "no data" instead of a misleading 0%.
			h.logger.Warn("performance trend suppressed", slog.String("reason", "zero baseline"))
			return nil
		}
		if err != nil {
			return err
		}
		trend = t
		trendKnown = true
		return nil
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}

	now := time.Now()
	visible := evaluation.Filter(records, filter)
	data := TableData{
		BasePath:       rbac.RouteDashboard,
		Filter:         echo,
		Sort:           sortState,
		SelectedPeriod: selectedPeriod(filter),
		Statuses:       statusOptions(),
		Periods:        periods,
		Rows:           h.buildRows(evaluation.Sort(visible, sortState, now), now),
		Distribution:   analytics.StatusDistribution(visible),
		Summaries:      summaries,
		Trend:          trend,
		TrendKnown:     trendKnown,
	}
	h.render(w, r, "pages/dashboard.html", "Panel de control", data)
}

// refreshDashboard invalidates the cached dashboard data and redirects back.
func (h *Handler) refreshDashboard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	websess := shared.WebSessionFromContext(r.Context())
	if err := h.csrf.VerifyToken(r.Context(), websess, r.PostFormValue(shared.CSRFFormField)); err != nil {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "invalid csrf token")
		return
	}
	if err := h.analytics.Refresh(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	if websess != nil {
		websess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Datos actualizados"})
	}
	http.Redirect(w, r, rbac.RouteDashboard, http.StatusSeeOther)
}
