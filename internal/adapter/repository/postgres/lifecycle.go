package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/user/workspace-engine/internal/adapter/fixture"
	"github.com/user/workspace-engine/internal/domain"
)

// LifecycleStore implements domain.LifecycleStore: it wipes a tenant schema
// and repopulates it from the demo fixture. The caller (the reset use case)
// owns ordering, locking and connection release.
type LifecycleStore struct {
	demo   *fixture.DemoSet
	logger *slog.Logger
}

// NewLifecycleStore creates a LifecycleStore seeding from the given fixture.
func NewLifecycleStore(demo *fixture.DemoSet, logger *slog.Logger) *LifecycleStore {
	return &LifecycleStore{
		demo:   demo,
		logger: logger.With("component", "lifecycle_store"),
	}
}

// DeleteTenantData truncates every base table in the tenant's schema in one
// statement, so the delete is all-or-nothing. Table names come from the
// catalog, schema name from the trusted tenant id; both are structural
// identifiers, quoted, never user input.
func (s *LifecycleStore) DeleteTenantData(ctx context.Context, conn domain.ScopedExecConn) error {
	rows, err := conn.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'`, conn.SchemaName())
	if err != nil {
		return fmt.Errorf("list tables in schema %q: %w", conn.SchemaName(), err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, pq.QuoteIdentifier(conn.SchemaName())+"."+pq.QuoteIdentifier(name))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list tables in schema %q: %w", conn.SchemaName(), err)
	}

	if len(tables) == 0 {
		s.logger.Warn("schema has no tables to truncate", "schema", conn.SchemaName())
		return nil
	}

	stmt := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " CASCADE"
	if err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("truncate schema %q: %w", conn.SchemaName(), err)
	}

	s.logger.Info("tenant data deleted", "schema", conn.SchemaName(), "tables", len(tables))
	return nil
}

// InitDemoData inserts the demo fixture inside a single transaction, so a
// failed reinit leaves the schema empty rather than half-seeded. The
// connection is a dedicated session, so explicit BEGIN/COMMIT is safe.
func (s *LifecycleStore) InitDemoData(ctx context.Context, conn domain.ScopedExecConn) error {
	if err := conn.ExecContext(ctx, "BEGIN"); err != nil {
		return fmt.Errorf("begin demo init: %w", err)
	}

	if err := s.insertDemo(ctx, conn); err != nil {
		if rbErr := conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
			s.logger.Error("rollback after failed demo init also failed", "error", rbErr)
		}
		return err
	}

	if err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit demo init: %w", err)
	}

	s.logger.Info("demo fixture applied",
		"schema", conn.SchemaName(),
		"companies", len(s.demo.Companies),
		"people", len(s.demo.People),
	)
	return nil
}

func (s *LifecycleStore) insertDemo(ctx context.Context, conn domain.ScopedExecConn) error {
	for _, c := range s.demo.Companies {
		err := conn.ExecContext(ctx, `
			INSERT INTO company (id, name, "domainName", "createdAt")
			VALUES ($1, $2, $3, NOW())`, c.ID, c.Name, c.DomainName)
		if err != nil {
			return fmt.Errorf("seed company %q: %w", c.Name, err)
		}
	}

	for _, p := range s.demo.People {
		err := conn.ExecContext(ctx, `
			INSERT INTO person (id, "firstName", "lastName", email, "companyId", "createdAt")
			VALUES ($1, $2, $3, $4, $5, NOW())`, p.ID, p.FirstName, p.LastName, p.Email, p.CompanyID)
		if err != nil {
			return fmt.Errorf("seed person %q %q: %w", p.FirstName, p.LastName, err)
		}
	}

	for _, v := range s.demo.Views {
		err := conn.ExecContext(ctx, `
			INSERT INTO view (id, name, "objectMetadataId", "createdAt")
			VALUES ($1, $2, $3, NOW())`, v.ID, v.Name, v.ObjectMetadataID)
		if err != nil {
			return fmt.Errorf("seed view %q: %w", v.Name, err)
		}
	}

	return nil
}
