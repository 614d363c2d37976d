package api

import (
	"log/slog"
	"net/http"

	"github.com/user/workspace-engine/internal/adapter/api/handler"
	"github.com/user/workspace-engine/internal/adapter/api/middleware"
	"github.com/user/workspace-engine/internal/pkg/config"
)

// NewRouter creates and configures the main HTTP router for the engine.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	evaluateService handler.EvaluateService,
	resetService handler.ResetService,
) http.Handler {
	mux := http.NewServeMux()

	rewardHandler := handler.NewRewardHandler(evaluateService, logger)
	resetHandler := handler.NewResetHandler(resetService, logger)

	limited := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	// Evaluation is read-only; reset is the one mutating operation and is
	// kept on its own route, never dispatchable by rule name.
	mux.Handle("GET /reward/{ruleName}", limited(http.HandlerFunc(rewardHandler.GetReward)))
	mux.Handle("POST /reset", limited(http.HandlerFunc(resetHandler.Reset)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
