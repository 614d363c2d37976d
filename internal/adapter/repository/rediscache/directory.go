// Package rediscache decorates the tenant directory with a Redis cache.
// Origin resolution happens on every request, so the hot path avoids a
// Postgres round-trip when the tenant is already cached.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/user/workspace-engine/internal/adapter/metrics"
	"github.com/user/workspace-engine/internal/domain"
)

const originKeyPrefix = "tenant:origin:"

// TenantDirectory wraps an inner domain.TenantDirectory with a TTL cache.
// Cache failures degrade to the inner directory; they never fail resolution.
type TenantDirectory struct {
	client  *redis.Client
	inner   domain.TenantDirectory
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.EngineMetrics
}

// NewTenantDirectory creates the caching decorator. metrics may be nil.
func NewTenantDirectory(client *redis.Client, inner domain.TenantDirectory, ttl time.Duration, logger *slog.Logger, m *metrics.EngineMetrics) *TenantDirectory {
	return &TenantDirectory{
		client:  client,
		inner:   inner,
		ttl:     ttl,
		logger:  logger.With("component", "tenant_cache"),
		metrics: m,
	}
}

// ResolveOrigin serves a cached tenant when present, otherwise resolves
// through the inner directory and caches the result. Negative outcomes are
// not cached: an ErrTenantUnresolved must always reflect the directory's
// current state, not a stale miss.
func (d *TenantDirectory) ResolveOrigin(ctx context.Context, origin string) (*domain.Tenant, error) {
	key := originKeyPrefix + origin

	payload, err := d.client.Get(ctx, key).Bytes()
	if err == nil {
		var tenant domain.Tenant
		if jerr := json.Unmarshal(payload, &tenant); jerr == nil {
			if d.metrics != nil {
				d.metrics.TenantCacheHits.Inc()
			}
			return &tenant, nil
		}
		// Unreadable entry: drop it and fall through to the directory.
		d.logger.Warn("dropping corrupt tenant cache entry", "origin", origin)
		d.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		d.logger.Warn("tenant cache unavailable, resolving from directory", "error", err)
	}

	if d.metrics != nil {
		d.metrics.TenantCacheMisses.Inc()
	}

	tenant, err := d.inner.ResolveOrigin(ctx, origin)
	if err != nil {
		return nil, err
	}

	if payload, jerr := json.Marshal(tenant); jerr == nil {
		if serr := d.client.Set(ctx, key, payload, d.ttl).Err(); serr != nil {
			d.logger.Warn("failed to cache tenant", "origin", origin, "error", serr)
		}
	}

	return tenant, nil
}

// FindByID always goes to the inner directory. Lookups by id sit on the
// provisioning and lifecycle paths, which must see directory truth.
func (d *TenantDirectory) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return d.inner.FindByID(ctx, id)
}
