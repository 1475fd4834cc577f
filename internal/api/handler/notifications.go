package handler

import (
	"net/http"

	"github.com/albapepper/dupepanel/internal/api/respond"
	"github.com/albapepper/dupepanel/internal/notifications"
)

// ScheduledView is the persisted queue next to the ids already handled.
type ScheduledView struct {
	Queue []notifications.Scheduled `json:"queue"`
	Shown []string                  `json:"shown"`
}

// GetScheduled returns the notification queue and shown record.
// @Summary Scheduled notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} ScheduledView
// @Router /notifications/scheduled [get]
func (h *Handler) GetScheduled(w http.ResponseWriter, r *http.Request) {
	queue, err := notifications.LoadQueue(r.Context(), h.Queue)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	shown, err := notifications.LoadShown(r.Context(), h.Queue)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if queue == nil {
		queue = []notifications.Scheduled{}
	}
	respond.WriteJSONObject(w, http.StatusOK, ScheduledView{Queue: queue, Shown: shown.IDs()})
}

// SendTestNotification asks the worker to emit a test alert.
// @Summary Send test notification
// @Description The worker shows a two-slots alert immediately. The shown record is not touched.
// @Tags notifications
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /notifications/test [post]
func (h *Handler) SendTestNotification(w http.ResponseWriter, r *http.Request) {
	if h.Notifier == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "WORKER_UNAVAILABLE", "No delivery worker is connected")
		return
	}
	if err := h.Notifier.RequestTest(r.Context()); err != nil {
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable, "WORKER_UNAVAILABLE", "Could not reach the delivery worker", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusAccepted, map[string]interface{}{"status": "sent"})
}
