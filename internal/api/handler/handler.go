// Package handler provides HTTP handlers for all API endpoints.
// Handlers call the stores directly; there is no service layer beyond
// backup, which spans several stores.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/albapepper/dupepanel/internal/api/respond"
	"github.com/albapepper/dupepanel/internal/backup"
	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/sales"
	"github.com/albapepper/dupepanel/internal/settings"
)

// Version is reported at / and in the API docs.
const Version = "1.0.0"

// maxBodyBytes caps request bodies, imports included.
const maxBodyBytes = 10 << 20

// Notifier reaches the delivery worker.
type Notifier interface {
	RequestTest(ctx context.Context) error
}

// HealthChecker reports database reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the collaborators a Handler serves. Queue is the store holding
// the scheduled queue and shown record. Notifier and DB may be nil.
type Deps struct {
	Sales    *sales.Store
	Plates   *sales.PlateStore
	Settings *settings.Store
	Backup   *backup.Service
	Queue    kvstore.Store
	Notifier Notifier
	DB       HealthChecker
	Location *time.Location
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	Deps
	now func() time.Time
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	if d.Location == nil {
		d.Location = time.Local
	}
	return &Handler{Deps: d, now: time.Now}
}

// SetClock overrides the time source for the dashboard and sale defaults.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Dupepanel API",
		"version": Version,
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Reports "not_configured" when no Postgres pool is in use.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", err.Error())
		return false
	}
	return true
}

// writeStoreError maps store errors to HTTP errors.
func writeStoreError(w http.ResponseWriter, err error) {
	var verr *sales.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", verr.Error())
	case errors.Is(err, sales.ErrFutureTimestamp):
		respond.WriteError(w, http.StatusBadRequest, "FUTURE_TIMESTAMP", "Sale time cannot be in the future")
	case errors.Is(err, sales.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Sale not found")
	case errors.Is(err, sales.ErrPlateNotFound):
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Plate not found")
	case errors.Is(err, sales.ErrDuplicatePlate):
		respond.WriteError(w, http.StatusConflict, "DUPLICATE_PLATE", "Plate already exists")
	case errors.Is(err, settings.ErrUnknownTheme):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
	case errors.Is(err, backup.ErrInvalidFormat):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BACKUP", "Invalid backup file format", err.Error())
	default:
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
