package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/dupepanel/internal/api/respond"
	"github.com/albapepper/dupepanel/internal/sales"
)

// SaleRequest is the body for creating or editing a sale. The instant is
// taken from timestamp when set, else from date and time in the server's
// display timezone, else the current time.
type SaleRequest struct {
	Timestamp *int64 `json:"timestamp,omitempty"` // unix ms
	Date      string `json:"date,omitempty"`      // YYYY-MM-DD
	Time      string `json:"time,omitempty"`      // HH:mm
	Plate     string `json:"plate"`
}

func (h *Handler) saleInput(req SaleRequest) (sales.Input, error) {
	in := sales.Input{Plate: req.Plate}
	switch {
	case req.Timestamp != nil:
		in.At = time.UnixMilli(*req.Timestamp)
	case req.Date != "" || req.Time != "":
		at, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, h.Location)
		if err != nil {
			return in, &sales.ValidationError{Field: "date", Message: "date and time must be YYYY-MM-DD and HH:mm"}
		}
		in.At = at
	default:
		in.At = h.now()
	}
	return in, nil
}

// ListSales returns every sale, newest first.
// @Summary List sales
// @Tags sales
// @Produce json
// @Success 200 {array} sales.Sale
// @Router /sales [get]
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.Sales.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if list == nil {
		list = []sales.Sale{}
	}
	respond.WriteJSONObject(w, http.StatusOK, list)
}

// GetSale returns one sale.
// @Summary Get sale
// @Tags sales
// @Produce json
// @Param saleID path string true "Sale ID"
// @Success 200 {object} sales.Sale
// @Failure 404 {object} respond.ErrorResponse
// @Router /sales/{saleID} [get]
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.Sales.Get(r.Context(), chi.URLParam(r, "saleID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, sale)
}

// CreateSale records a sale.
// @Summary Record sale
// @Description Records a sale. Future instants are rejected. The notification queue is recomputed afterwards.
// @Tags sales
// @Accept json
// @Produce json
// @Param body body SaleRequest true "Sale"
// @Success 201 {object} sales.Sale
// @Failure 400 {object} respond.ErrorResponse
// @Router /sales [post]
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := h.saleInput(req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	sale, err := h.Sales.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, sale)
}

// UpdateSale edits a sale in place, keeping its id.
// @Summary Edit sale
// @Tags sales
// @Accept json
// @Produce json
// @Param saleID path string true "Sale ID"
// @Param body body SaleRequest true "Sale"
// @Success 200 {object} sales.Sale
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /sales/{saleID} [put]
func (h *Handler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := h.saleInput(req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	sale, err := h.Sales.Update(r.Context(), chi.URLParam(r, "saleID"), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, sale)
}

// DeleteSale removes a sale.
// @Summary Delete sale
// @Tags sales
// @Param saleID path string true "Sale ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /sales/{saleID} [delete]
func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.Sales.Delete(r.Context(), chi.URLParam(r, "saleID")); err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteNoContent(w)
}
