package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/dupepanel/internal/api/respond"
	"github.com/albapepper/dupepanel/internal/sales"
)

// PlateView is a saved plate with the number of sales tagged with it.
type PlateView struct {
	sales.Plate
	Usage int `json:"usage"`
}

type plateRequest struct {
	License string `json:"license"`
}

// ListPlates returns saved plates with usage counts.
// @Summary List plates
// @Tags plates
// @Produce json
// @Success 200 {array} PlateView
// @Router /plates [get]
func (h *Handler) ListPlates(w http.ResponseWriter, r *http.Request) {
	plates, err := h.Plates.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	list, err := h.Sales.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	usage := sales.UsageCounts(list)

	out := make([]PlateView, 0, len(plates))
	for _, p := range plates {
		out = append(out, PlateView{Plate: p, Usage: usage[p.License]})
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}

// CreatePlate saves a license plate.
// @Summary Add plate
// @Description Licenses are upper-cased and trimmed, must be 1-8 alphanumeric characters, and must be unique.
// @Tags plates
// @Accept json
// @Produce json
// @Param body body plateRequest true "Plate"
// @Success 201 {object} sales.Plate
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /plates [post]
func (h *Handler) CreatePlate(w http.ResponseWriter, r *http.Request) {
	var req plateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	plate, err := h.Plates.Add(r.Context(), req.License)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, plate)
}

// DeletePlate removes a saved plate. Sales tagged with it keep the tag.
// @Summary Remove plate
// @Tags plates
// @Param plateID path string true "Plate ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /plates/{plateID} [delete]
func (h *Handler) DeletePlate(w http.ResponseWriter, r *http.Request) {
	if err := h.Plates.Remove(r.Context(), chi.URLParam(r, "plateID")); err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteNoContent(w)
}
