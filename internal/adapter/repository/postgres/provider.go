package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/user/workspace-engine/internal/adapter/metrics"
	"github.com/user/workspace-engine/internal/domain"
)

// ConnProvider leases tenant-scoped connections from the shared *sql.DB
// pool. Scoping is session-level: search_path is pinned to the tenant's
// schema for the lifetime of the lease and reset before the session returns
// to the pool. Read leases additionally pin the session read-only so a rule
// cannot mutate tenant data through any code path.
type ConnProvider struct {
	db             *sql.DB
	directory      domain.TenantDirectory
	acquireTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.EngineMetrics
}

// NewConnProvider creates a ConnProvider. The directory is consulted on
// every acquisition so a torn-down tenant fails fast. metrics may be nil.
func NewConnProvider(db *sql.DB, directory domain.TenantDirectory, acquireTimeout time.Duration, logger *slog.Logger, m *metrics.EngineMetrics) *ConnProvider {
	return &ConnProvider{
		db:             db,
		directory:      directory,
		acquireTimeout: acquireTimeout,
		logger:         logger.With("component", "conn_provider"),
		metrics:        m,
	}
}

// Acquire leases a read-only connection scoped to the tenant's schema.
func (p *ConnProvider) Acquire(ctx context.Context, tenantID uuid.UUID) (domain.ScopedConn, error) {
	return p.acquire(ctx, tenantID, true)
}

// AcquireExec leases a write-capable connection scoped to the tenant's
// schema. Lifecycle operations only.
func (p *ConnProvider) AcquireExec(ctx context.Context, tenantID uuid.UUID) (domain.ScopedExecConn, error) {
	return p.acquire(ctx, tenantID, false)
}

func (p *ConnProvider) acquire(ctx context.Context, tenantID uuid.UUID, readOnly bool) (*scopedConn, error) {
	if _, err := p.directory.FindByID(ctx, tenantID); err != nil {
		return nil, err
	}

	// The schema name is derived from the trusted tenant id, never taken
	// from the caller as a string.
	schema := domain.SchemaName(tenantID)

	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.db.Conn(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: pool acquisition timed out after %s", domain.ErrConnectionUnavailable, p.acquireTimeout)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionUnavailable, err)
	}

	var exists bool
	err = conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`, schema,
	).Scan(&exists)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: schema lookup failed: %v", domain.ErrConnectionUnavailable, err)
	}
	if !exists {
		_ = conn.Close()
		return nil, fmt.Errorf("schema %q for tenant %s: %w", schema, tenantID, domain.ErrSchemaMissing)
	}

	if _, err := conn.ExecContext(ctx, `SELECT set_config('search_path', $1, false)`, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("scope session to schema %q: %w", schema, err)
	}
	if readOnly {
		if _, err := conn.ExecContext(ctx, `SET default_transaction_read_only = on`); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("pin session read-only: %w", err)
		}
	}

	if p.metrics != nil {
		p.metrics.ConnectionsLeased.Inc()
	}

	return &scopedConn{
		conn:     conn,
		tenantID: tenantID,
		schema:   schema,
		provider: p,
	}, nil
}

// scopedConn implements domain.ScopedConn and domain.ScopedExecConn over one
// leased session.
type scopedConn struct {
	conn     *sql.Conn
	tenantID uuid.UUID
	schema   string
	provider *ConnProvider
}

func (c *scopedConn) TenantID() uuid.UUID { return c.tenantID }

func (c *scopedConn) SchemaName() string { return c.schema }

func (c *scopedConn) QueryRowContext(ctx context.Context, query string, args ...any) domain.Row {
	if err := validateScopedQuery(c.schema, query); err != nil {
		return errRow{err}
	}
	return c.conn.QueryRowContext(ctx, query, args...)
}

func (c *scopedConn) QueryContext(ctx context.Context, query string, args ...any) (domain.Rows, error) {
	if err := validateScopedQuery(c.schema, query); err != nil {
		return nil, err
	}
	return c.conn.QueryContext(ctx, query, args...)
}

func (c *scopedConn) ExecContext(ctx context.Context, query string, args ...any) error {
	if err := validateScopedQuery(c.schema, query); err != nil {
		return err
	}
	_, err := c.conn.ExecContext(ctx, query, args...)
	return err
}

// Release undoes the session scoping and returns the connection to the pool.
// Pooled sessions keep SET values across leases, so the reset must happen
// before Close hands the session to the next tenant.
func (c *scopedConn) Release() error {
	if _, err := c.conn.ExecContext(context.Background(), `RESET ALL`); err != nil {
		// A session whose scope cannot be cleared must not be reused.
		_ = c.conn.Raw(func(any) error { return driver.ErrBadConn })
		_ = c.conn.Close()
		c.afterRelease()
		return fmt.Errorf("reset session scope: %w", err)
	}
	err := c.conn.Close()
	c.afterRelease()
	return err
}

func (c *scopedConn) afterRelease() {
	if c.provider != nil && c.provider.metrics != nil {
		c.provider.metrics.ConnectionsLeased.Dec()
	}
}

var workspaceSchemaPattern = regexp.MustCompile(`workspace_[0-9a-fA-F]+`)

// validateScopedQuery rejects statements that reference any workspace schema
// other than the one this connection is bound to. Schema names are only ever
// interpolated structurally from trusted tenant ids, so a foreign
// workspace_* identifier in the text can only mean an attempted (or
// accidental) cross-tenant read.
func validateScopedQuery(schema, query string) error {
	for _, match := range workspaceSchemaPattern.FindAllString(query, -1) {
		if !strings.EqualFold(match, schema) {
			return fmt.Errorf("query references schema %q outside the scope of %q", match, schema)
		}
	}
	return nil
}

// errRow is a domain.Row whose Scan reports a pre-query failure.
type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }
