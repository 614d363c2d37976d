package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/workspace-engine/internal/domain"
)

// ResetService is the use-case surface the reset handler depends on.
type ResetService interface {
	Reset(ctx context.Context, origin string) error
}

// ResetHandler handles HTTP requests for the destructive tenant reset.
type ResetHandler struct {
	service ResetService
	logger  *slog.Logger
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(service ResetService, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{service: service, logger: logger}
}

// Reset deletes and reinitializes the tenant resolved from the request's
// Host header.
// POST /reset
func (h *ResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	origin := domain.NormalizeOrigin(r.Host)

	if err := h.service.Reset(r.Context(), origin); err != nil {
		h.writeResetError(w, err, origin)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Database reset successful"})
}

func (h *ResetHandler) writeResetError(w http.ResponseWriter, err error, origin string) {
	var lcErr *domain.LifecycleError

	switch {
	case errors.Is(err, domain.ErrTenantUnresolved):
		respondWithError(w, http.StatusNotFound, "tenant_unresolved", "no tenant registered for origin "+origin)
	case errors.Is(err, domain.ErrConnectionUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, "connection_unavailable", "backend temporarily unavailable, retry later")
	case errors.Is(err, domain.ErrSchemaMissing):
		h.logger.Error("tenant schema missing", "error", err, "origin", origin)
		respondWithError(w, http.StatusInternalServerError, "schema_missing", "tenant storage is not provisioned")
	case errors.As(err, &lcErr):
		// The stage matters to the caller: a failed init means the delete
		// already ran and the tenant is empty.
		h.logger.Error("tenant reset failed", "error", err, "stage", lcErr.Stage, "origin", origin)
		respondWithError(w, http.StatusInternalServerError, "lifecycle_failed", "reset failed during "+lcErr.Stage)
	case errors.Is(err, context.Canceled):
		respondWithError(w, http.StatusServiceUnavailable, "cancelled", "request cancelled before reset started")
	default:
		h.logger.Error("tenant reset failed", "error", err, "origin", origin)
		respondWithError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
