package console

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/evalia-hr/evalia-console/internal/analytics"
	"github.com/evalia-hr/evalia-console/internal/evaluation"
)

// showMyEvaluations renders the personal record set with the viewer's own
// score trend. The table is fixed to the default ordering.
func (h *Handler) showMyEvaluations(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Snapshot()
	ctx := r.Context()

	records, err := h.analytics.EmployeeRecords(ctx, sess.Token, sess.User.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := PersonalData{}
	trend, err := h.analytics.Trend(ctx, sess.Token, sess.User.ID)
	switch {
	case errors.Is(err, analytics.ErrZeroBaseline):
		h.logger.Warn("personal trend suppressed",
			slog.Int64("employee_id", sess.User.ID),
			slog.String("reason", "zero baseline"))
	case err != nil:
		h.fail(w, r, err)
		return
	default:
		data.Trend = trend
		data.TrendKnown = true
	}

	now := time.Now()
	data.Rows = h.buildRows(evaluation.Sort(records, evaluation.DefaultSort, now), now)
	h.render(w, r, "pages/myevals.html", "Mis evaluaciones", data)
}
