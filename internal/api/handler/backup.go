package handler

import (
	"bytes"
	"net/http"

	"github.com/albapepper/dupepanel/internal/api/respond"
	"github.com/albapepper/dupepanel/internal/backup"
)

// ExportData downloads a backup of sales, plates and settings.
// @Summary Export backup
// @Description Returns the backup document as a file download named dupepanel-backup-YYYY-MM-DD.json.
// @Tags backup
// @Produce json
// @Success 200 {object} backup.Envelope
// @Router /export [get]
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Backup.WriteExport(r.Context(), &buf); err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	respond.SetAttachment(w, backup.FileName(h.now()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ImportData replaces sales and plates, and settings when present.
// @Summary Import backup
// @Description Requires a version and both the sales and plates arrays. Sales and plates get fresh ids.
// @Tags backup
// @Accept json
// @Produce json
// @Param body body backup.Envelope true "Backup document"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /import [post]
func (h *Handler) ImportData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	env, err := backup.Decode(r.Body)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := h.Backup.Import(r.Context(), env); err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"imported": map[string]int{
			"sales":  len(env.Sales),
			"plates": len(env.Plates),
		},
		"settings": env.Settings != nil,
	})
}

// ClearData wipes sales and plates, restores default settings and empties
// the notification queue and shown record.
// @Summary Clear all data
// @Tags backup
// @Success 204
// @Router /data [delete]
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.Backup.ClearAll(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteNoContent(w)
}
