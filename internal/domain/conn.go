package domain

import (
	"context"

	"github.com/google/uuid"
)

// Row is a single-row query result. *sql.Row satisfies it.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row query result. *sql.Rows satisfies it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// ScopedConn is a read-only data-access handle bound to exactly one tenant's
// schema. Unqualified table names in queries resolve inside that schema, and
// a query referencing any other tenant's schema is rejected. The holder must
// call Release on every exit path; the underlying connection returns to the
// shared pool with the tenant scoping undone.
type ScopedConn interface {
	TenantID() uuid.UUID
	SchemaName() string
	QueryRowContext(ctx context.Context, query string, args ...any) Row
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
	Release() error
}

// ScopedExecConn is a ScopedConn that additionally permits writes. It is a
// separate capability handed only to lifecycle operations; rule evaluation
// never sees one.
type ScopedExecConn interface {
	ScopedConn
	ExecContext(ctx context.Context, query string, args ...any) error
}

// ConnProvider leases tenant-scoped connections from a shared bounded pool.
type ConnProvider interface {
	// Acquire leases a read-only connection scoped to the tenant's schema.
	// Fails with ErrTenantUnresolved for an unknown tenant,
	// ErrConnectionUnavailable when the pool is exhausted or the backend is
	// unreachable (retryable), or ErrSchemaMissing when the tenant record
	// exists but its schema was never provisioned or has been torn down.
	Acquire(ctx context.Context, tenantID uuid.UUID) (ScopedConn, error)

	// AcquireExec is Acquire with write capability, for lifecycle use only.
	AcquireExec(ctx context.Context, tenantID uuid.UUID) (ScopedExecConn, error)
}
