package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/workspace-engine/internal/adapter/metrics"
	"github.com/user/workspace-engine/internal/domain"
)

// ResetUseCase performs the destructive tenant lifecycle operation: delete
// all tenant data, then reinitialize it from the demo fixture. It is the one
// path in the engine that mutates tenant state and is deliberately not
// reachable through the rule registry.
type ResetUseCase struct {
	directory domain.TenantDirectory
	conns     domain.ConnProvider
	store     domain.LifecycleStore
	locks     *TenantLocks
	logger    *slog.Logger
	metrics   *metrics.EngineMetrics
}

// NewResetUseCase creates a new ResetUseCase. metrics may be nil.
func NewResetUseCase(
	directory domain.TenantDirectory,
	conns domain.ConnProvider,
	store domain.LifecycleStore,
	locks *TenantLocks,
	logger *slog.Logger,
	m *metrics.EngineMetrics,
) *ResetUseCase {
	return &ResetUseCase{
		directory: directory,
		conns:     conns,
		store:     store,
		locks:     locks,
		logger:    logger,
		metrics:   m,
	}
}

// Reset deletes and reinitializes the tenant resolved from origin. InitDemo
// never runs unless the delete completed; a failure in either half is
// reported as a LifecycleError naming the failed stage. Cancellation is
// honored up to the point the destructive step starts; after that the
// delete/reinit pair runs to completion or to a reported failure.
func (uc *ResetUseCase) Reset(ctx context.Context, origin string) error {
	tenant, err := uc.directory.ResolveOrigin(ctx, origin)
	if err != nil {
		uc.count("tenant_unresolved")
		return fmt.Errorf("resolve tenant for origin %q: %w", origin, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Exclusive side of the per-tenant lock: no evaluation for this tenant
	// overlaps the delete/reinit window.
	lock := uc.locks.Get(tenant.ID)
	lock.Lock()
	defer lock.Unlock()

	conn, err := uc.conns.AcquireExec(ctx, tenant.ID)
	if err != nil {
		uc.count("error")
		return fmt.Errorf("acquire connection for tenant %s: %w", tenant.ID, err)
	}
	defer func() {
		if cerr := conn.Release(); cerr != nil {
			uc.logger.Warn("failed to release scoped connection", "error", cerr, "tenant_id", tenant.ID)
		}
	}()

	// From here on the operation must not be abandoned mid-way: detach from
	// the caller's cancellation for the destructive pair.
	dctx := context.WithoutCancel(ctx)
	start := time.Now()

	if err := uc.store.DeleteTenantData(dctx, conn); err != nil {
		uc.count("delete_failed")
		uc.logger.Error("tenant delete failed, data left in prior state", "error", err, "tenant_id", tenant.ID)
		return &domain.LifecycleError{Stage: domain.LifecycleStageDelete, Err: err}
	}

	if err := uc.store.InitDemoData(dctx, conn); err != nil {
		uc.count("init_failed")
		uc.logger.Error("demo reinit failed after successful delete", "error", err, "tenant_id", tenant.ID)
		return &domain.LifecycleError{Stage: domain.LifecycleStageInit, Err: err}
	}

	uc.count("ok")
	uc.logger.Info("tenant reset",
		"tenant_id", tenant.ID,
		"schema", conn.SchemaName(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

func (uc *ResetUseCase) count(status string) {
	if uc.metrics != nil {
		uc.metrics.ResetsTotal.WithLabelValues(status).Inc()
	}
}
