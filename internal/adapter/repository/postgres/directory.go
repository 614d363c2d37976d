package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/workspace-engine/internal/domain"
)

// TenantDirectory implements domain.TenantDirectory over the shared tenants
// table. The table is populated by the provisioning process; the engine only
// reads it.
type TenantDirectory struct {
	db              *sql.DB
	defaultTenantID *uuid.UUID
	logger          *slog.Logger
}

// NewTenantDirectory creates a Postgres-backed tenant directory.
// defaultTenantID, when non-nil, is the configured fallback for origins with
// no registered tenant; nil means unregistered origins are unresolved.
func NewTenantDirectory(db *sql.DB, defaultTenantID *uuid.UUID, logger *slog.Logger) *TenantDirectory {
	return &TenantDirectory{
		db:              db,
		defaultTenantID: defaultTenantID,
		logger:          logger.With("component", "tenant_directory"),
	}
}

// ResolveOrigin looks up the tenant whose primary domain or alias list
// matches the normalized origin, falling back to the configured default
// tenant when one is set.
func (d *TenantDirectory) ResolveOrigin(ctx context.Context, origin string) (*domain.Tenant, error) {
	query := `
        SELECT id, name, primary_domain, origin_aliases, created_at, updated_at
        FROM tenants
        WHERE primary_domain = $1 OR $1 = ANY(origin_aliases)
    `

	tenant, err := d.scanTenant(d.db.QueryRowContext(ctx, query, origin))
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve origin %q: %w", origin, err)
	}

	if d.defaultTenantID == nil {
		return nil, fmt.Errorf("origin %q: %w", origin, domain.ErrTenantUnresolved)
	}

	d.logger.Debug("origin not registered, using default tenant", "origin", origin, "tenant_id", *d.defaultTenantID)
	return d.FindByID(ctx, *d.defaultTenantID)
}

// FindByID returns the tenant record for an id.
func (d *TenantDirectory) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `
        SELECT id, name, primary_domain, origin_aliases, created_at, updated_at
        FROM tenants
        WHERE id = $1
    `

	tenant, err := d.scanTenant(d.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tenant %s: %w", id, domain.ErrTenantUnresolved)
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant %s: %w", id, err)
	}

	return tenant, nil
}

func (d *TenantDirectory) scanTenant(row *sql.Row) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.PrimaryDomain,
		pq.Array(&tenant.OriginAliases),
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}
