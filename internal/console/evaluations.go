package console

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/hrapi"
	"github.com/evalia-hr/evalia-console/internal/rbac"
)

// showEvaluations renders the management table with the full filter set,
// including the evaluator filter the dashboard does not expose.
func (h *Handler) showEvaluations(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Snapshot()
	filter, echo := parseFilter(r)
	sortState := parseSort(r)

	var (
		records []evaluation.Record
		periods []hrapi.Period
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
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}

	now := time.Now()
	visible := evaluation.Filter(records, filter)
	data := TableData{
		BasePath:       rbac.RouteEvaluations,
		Filter:         echo,
		Sort:           sortState,
		SelectedPeriod: selectedPeriod(filter),
		Statuses:       statusOptions(),
		Periods:        periods,
		Rows:           h.buildRows(evaluation.Sort(visible, sortState, now), now),
	}
	h.render(w, r, "pages/evaluations.html", "Gestión de evaluaciones", data)
}
