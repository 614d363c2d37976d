package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/workspace-engine/internal/domain"
)

// EvaluateService is the use-case surface the reward handler depends on.
type EvaluateService interface {
	Evaluate(ctx context.Context, origin, ruleName string) (domain.Result, error)
}

// RewardHandler handles HTTP requests for rule evaluation.
type RewardHandler struct {
	service EvaluateService
	logger  *slog.Logger
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(service EvaluateService, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{service: service, logger: logger}
}

// GetReward evaluates the rule named in the path against the tenant resolved
// from the request's Host header.
// GET /reward/{ruleName}
func (h *RewardHandler) GetReward(w http.ResponseWriter, r *http.Request) {
	ruleName := r.PathValue("ruleName")
	if ruleName == "" {
		respondWithError(w, http.StatusBadRequest, "missing_rule", "rule name is required")
		return
	}

	origin := domain.NormalizeOrigin(r.Host)

	result, err := h.service.Evaluate(r.Context(), origin, ruleName)
	if err != nil {
		h.writeEvaluateError(w, err, origin, ruleName)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *RewardHandler) writeEvaluateError(w http.ResponseWriter, err error, origin, ruleName string) {
	var execErr *domain.RuleExecutionError

	switch {
	case errors.Is(err, domain.ErrUnknownRule):
		respondWithError(w, http.StatusNotFound, "unknown_rule", "unknown rule: "+ruleName)
	case errors.Is(err, domain.ErrTenantUnresolved):
		respondWithError(w, http.StatusNotFound, "tenant_unresolved", "no tenant registered for origin "+origin)
	case errors.Is(err, domain.ErrConnectionUnavailable):
		// Retryable: the pool was exhausted or the backend was unreachable.
		respondWithError(w, http.StatusServiceUnavailable, "connection_unavailable", "backend temporarily unavailable, retry later")
	case errors.Is(err, domain.ErrSchemaMissing):
		h.logger.Error("tenant schema missing", "error", err, "origin", origin)
		respondWithError(w, http.StatusInternalServerError, "schema_missing", "tenant storage is not provisioned")
	case errors.As(err, &execErr):
		h.logger.Error("rule execution failed", "error", err, "rule", ruleName, "origin", origin)
		respondWithError(w, http.StatusInternalServerError, "rule_failed", "rule "+ruleName+" failed to execute")
	default:
		h.logger.Error("evaluation failed", "error", err, "rule", ruleName, "origin", origin)
		respondWithError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
