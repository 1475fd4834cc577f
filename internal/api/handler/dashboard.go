package handler

import (
	"net/http"

	"github.com/albapepper/dupepanel/internal/api/respond"
	"github.com/albapepper/dupepanel/internal/rules"
)

// GetDashboard returns the dashboard view-model computed at request time.
// @Summary Dashboard summary
// @Description Returns both quota windows with their status, the cooldown timeline, the next sell price with its reset instant, and the weekly sales chart.
// @Tags dashboard
// @Produce json
// @Success 200 {object} rules.Summary
// @Failure 500 {object} respond.ErrorResponse
// @Router /dashboard [get]
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	list, err := h.Sales.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, rules.Summarize(list, h.now(), h.Location))
}
