package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/user/workspace-engine/internal/adapter/fixture"
	"github.com/user/workspace-engine/internal/domain"
	"github.com/user/workspace-engine/internal/domain/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newExecConn(tenantID uuid.UUID) *mocks.MockScopedExecConn {
	return &mocks.MockScopedExecConn{MockScopedConn: mocks.MockScopedConn{
		Tenant: tenantID,
		Schema: domain.SchemaName(tenantID),
	}}
}

func TestLifecycleStore_DeleteTenantData(t *testing.T) {
	tenantID := uuid.MustParse("3b8e6458-5fc1-4e63-8563-008ccddaa6db")
	store := NewLifecycleStore(fixture.Demo(), testLogger())

	t.Run("Truncates All Tables In One Statement", func(t *testing.T) {
		conn := newExecConn(tenantID)
		conn.QueryRows = [][]any{{"company"}, {"person"}, {"viewFilter"}}

		if err := store.DeleteTenantData(context.Background(), conn); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(conn.ExecQueries) != 1 {
			t.Fatalf("expected exactly 1 statement, got %d: %v", len(conn.ExecQueries), conn.ExecQueries)
		}
		want := `TRUNCATE TABLE "workspace_3b8e64585fc14e638563008ccddaa6db"."company", ` +
			`"workspace_3b8e64585fc14e638563008ccddaa6db"."person", ` +
			`"workspace_3b8e64585fc14e638563008ccddaa6db"."viewFilter" CASCADE`
		if conn.ExecQueries[0] != want {
			t.Errorf("statement = %s, want %s", conn.ExecQueries[0], want)
		}
	})

	t.Run("Empty Schema Issues No Truncate", func(t *testing.T) {
		conn := newExecConn(tenantID)

		if err := store.DeleteTenantData(context.Background(), conn); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(conn.ExecQueries) != 0 {
			t.Errorf("expected no statements, got %v", conn.ExecQueries)
		}
	})

	t.Run("Table Listing Failure", func(t *testing.T) {
		conn := newExecConn(tenantID)
		conn.QueryErr = errors.New("connection reset")

		if err := store.DeleteTenantData(context.Background(), conn); err == nil {
			t.Fatal("expected an error, got nil")
		}
		if len(conn.ExecQueries) != 0 {
			t.Errorf("expected no statements after a failed listing, got %v", conn.ExecQueries)
		}
	})
}

func TestLifecycleStore_InitDemoData(t *testing.T) {
	tenantID := uuid.MustParse("3b8e6458-5fc1-4e63-8563-008ccddaa6db")
	demo := fixture.Demo()
	store := NewLifecycleStore(demo, testLogger())

	t.Run("Seeds The Whole Fixture Inside One Transaction", func(t *testing.T) {
		conn := newExecConn(tenantID)

		if err := store.InitDemoData(context.Background(), conn); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		wantStatements := 2 + len(demo.Companies) + len(demo.People) + len(demo.Views)
		if len(conn.ExecQueries) != wantStatements {
			t.Fatalf("expected %d statements, got %d", wantStatements, len(conn.ExecQueries))
		}
		if conn.ExecQueries[0] != "BEGIN" {
			t.Errorf("first statement = %s, want BEGIN", conn.ExecQueries[0])
		}
		if last := conn.ExecQueries[len(conn.ExecQueries)-1]; last != "COMMIT" {
			t.Errorf("last statement = %s, want COMMIT", last)
		}
	})

	t.Run("Failed Insert Rolls Back And Never Commits", func(t *testing.T) {
		conn := newExecConn(tenantID)
		conn.ExecErr = errors.New("duplicate key value violates unique constraint")
		conn.ExecErrOn = "INSERT INTO person"

		err := store.InitDemoData(context.Background(), conn)
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if !strings.Contains(err.Error(), "seed person") {
			t.Errorf("error does not name the failed insert: %v", err)
		}
		if last := conn.ExecQueries[len(conn.ExecQueries)-1]; last != "ROLLBACK" {
			t.Errorf("last statement = %s, want ROLLBACK", last)
		}
		for _, q := range conn.ExecQueries {
			if q == "COMMIT" {
				t.Error("a failed seeding must never commit")
			}
		}
	})

	t.Run("Failed Begin Stops Before Any Insert", func(t *testing.T) {
		conn := newExecConn(tenantID)
		conn.ExecErr = errors.New("connection reset")
		conn.ExecErrOn = "BEGIN"

		if err := store.InitDemoData(context.Background(), conn); err == nil {
			t.Fatal("expected an error, got nil")
		}
		if len(conn.ExecQueries) != 1 {
			t.Errorf("expected only the failed BEGIN, got %v", conn.ExecQueries)
		}
	})
}
