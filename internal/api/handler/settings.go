package handler

import (
	"net/http"

	"github.com/albapepper/dupepanel/internal/api/respond"
)

// GetSettings returns the current settings.
// @Summary Get settings
// @Tags settings
// @Produce json
// @Success 200 {object} settings.Settings
// @Router /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Settings.Get(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, cfg)
}

// UpdateSettings merges the body onto the current settings. Fields absent
// from the body keep their value.
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Param body body settings.Settings true "Settings (partial allowed)"
// @Success 200 {object} settings.Settings
// @Failure 400 {object} respond.ErrorResponse
// @Router /settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Settings.Get(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !decodeBody(w, r, &cfg) {
		return
	}
	if err := h.Settings.Save(r.Context(), cfg); err != nil {
		writeStoreError(w, err)
		return
	}
	saved, err := h.Settings.Get(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, saved)
}
