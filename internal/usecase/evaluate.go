package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/workspace-engine/internal/adapter/metrics"
	"github.com/user/workspace-engine/internal/domain"
	"github.com/user/workspace-engine/internal/rules"
)

// EvaluateUseCase is the request-facing entry point for rule evaluation:
// resolve the tenant, look up the rule, lease a scoped read connection, run
// the rule, return its score.
type EvaluateUseCase struct {
	directory domain.TenantDirectory
	conns     domain.ConnProvider
	registry  *rules.Registry
	locks     *TenantLocks
	logger    *slog.Logger
	metrics   *metrics.EngineMetrics
}

// NewEvaluateUseCase creates a new EvaluateUseCase. metrics may be nil.
func NewEvaluateUseCase(
	directory domain.TenantDirectory,
	conns domain.ConnProvider,
	registry *rules.Registry,
	locks *TenantLocks,
	logger *slog.Logger,
	m *metrics.EngineMetrics,
) *EvaluateUseCase {
	return &EvaluateUseCase{
		directory: directory,
		conns:     conns,
		registry:  registry,
		locks:     locks,
		logger:    logger,
		metrics:   m,
	}
}

// Evaluate runs the named rule against the tenant resolved from origin.
// Tenant resolution and rule lookup both happen before any connection is
// leased, so unknown rules and unresolved tenants fail cheaply.
func (uc *EvaluateUseCase) Evaluate(ctx context.Context, origin, ruleName string) (domain.Result, error) {
	start := time.Now()

	tenant, err := uc.directory.ResolveOrigin(ctx, origin)
	if err != nil {
		uc.count(ruleName, statusFor(err))
		return domain.Result{}, fmt.Errorf("resolve tenant for origin %q: %w", origin, err)
	}

	rule, err := uc.registry.Lookup(ruleName)
	if err != nil {
		uc.count(ruleName, "unknown_rule")
		return domain.Result{}, err
	}

	// Shared side of the per-tenant lock: concurrent evaluations may
	// overlap, but never an in-flight reset of the same tenant.
	lock := uc.locks.Get(tenant.ID)
	lock.RLock()
	defer lock.RUnlock()

	conn, err := uc.conns.Acquire(ctx, tenant.ID)
	if err != nil {
		uc.count(ruleName, statusFor(err))
		return domain.Result{}, fmt.Errorf("acquire connection for tenant %s: %w", tenant.ID, err)
	}
	defer func() {
		if cerr := conn.Release(); cerr != nil {
			uc.logger.Warn("failed to release scoped connection", "error", cerr, "tenant_id", tenant.ID)
		}
	}()

	score, err := rule(ctx, conn)
	if err != nil {
		uc.count(ruleName, "error")
		return domain.Result{}, &domain.RuleExecutionError{Rule: ruleName, Err: err}
	}

	uc.count(ruleName, "ok")
	if uc.metrics != nil {
		uc.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	}
	uc.logger.Info("rule evaluated",
		"rule", ruleName,
		"tenant_id", tenant.ID,
		"score", score,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return domain.Result{RuleName: ruleName, Score: score}, nil
}

func (uc *EvaluateUseCase) count(rule, status string) {
	if uc.metrics != nil {
		uc.metrics.EvaluationsTotal.WithLabelValues(rule, status).Inc()
	}
}

func statusFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrTenantUnresolved):
		return "tenant_unresolved"
	case errors.Is(err, domain.ErrUnknownRule):
		return "unknown_rule"
	default:
		return "error"
	}
}
