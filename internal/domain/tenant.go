package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tenant represents one isolated workspace. Each tenant's data lives in its
// own Postgres schema, derived from the tenant id via SchemaName.
type Tenant struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	PrimaryDomain string    `json:"primary_domain"`
	OriginAliases []string  `json:"origin_aliases,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SchemaName derives the Postgres schema name for a tenant. The mapping is
// stable across the tenant's lifetime and collision-free: it is the same
// derivation used when the schema was provisioned, so it must never change.
func SchemaName(id uuid.UUID) string {
	return "workspace_" + strings.ReplaceAll(id.String(), "-", "")
}

// NormalizeOrigin reduces a raw origin (a Host header or a full URL) to the
// lowercased hostname used as the directory lookup key. Scheme, port and any
// path are dropped so "https://Acme.Example:443/x" and "acme.example" match.
func NormalizeOrigin(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	// Strip a trailing :port, but leave IPv6 literals intact.
	if i := strings.LastIndexByte(s, ':'); i >= 0 && !strings.Contains(s, "]") && strings.Count(s, ":") == 1 {
		s = s[:i]
	}
	return strings.ToLower(s)
}

// TenantDirectory resolves external identities to tenant records. It is
// read-only from the engine's point of view; provisioning populates it.
type TenantDirectory interface {
	// ResolveOrigin returns the tenant registered for a normalized origin.
	// If no tenant matches and a default-tenant policy is configured, the
	// default tenant is returned; otherwise ErrTenantUnresolved.
	ResolveOrigin(ctx context.Context, origin string) (*Tenant, error)

	// FindByID returns the tenant record for an id, or ErrTenantUnresolved.
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}

// LifecycleStore performs the destructive half of the engine: wiping a
// tenant's schema contents and repopulating them from the demo fixture.
// Both operations run over an exec-capable scoped connection supplied by
// the caller, which owns ordering and release.
type LifecycleStore interface {
	// DeleteTenantData irreversibly removes every row in the tenant's schema.
	DeleteTenantData(ctx context.Context, conn ScopedExecConn) error

	// InitDemoData repopulates the tenant's schema from the demo fixture.
	InitDemoData(ctx context.Context, conn ScopedExecConn) error
}
