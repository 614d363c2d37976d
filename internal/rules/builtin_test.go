package rules

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/workspace-engine/internal/domain/mocks"
)

func TestDeleteMicrosoftPeople(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		total     int
		wantScore int
	}{
		{"All Soft Deleted", 0, 3, 10},
		{"No Joined Rows At All", 0, 0, 0},
		{"Some Rows Still Live", 2, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
				{Values: []any{tt.remaining}},
				{Values: []any{tt.total}},
			}}

			score, err := deleteMicrosoftPeople(context.Background(), conn)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
		})
	}

	t.Run("Query Failure Is An Error Not Zero", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Err: errors.New("relation does not exist")},
		}}

		_, err := deleteMicrosoftPeople(context.Background(), conn)
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}

func TestCheggOnly(t *testing.T) {
	t.Run("Company Missing Scores Zero", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Err: sql.ErrNoRows},
		}}

		score, err := cheggOnly(context.Background(), conn)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if score != 0 {
			t.Errorf("score = %d, want 0", score)
		}
		if len(conn.Queries) != 1 {
			t.Errorf("expected 1 query, got %d", len(conn.Queries))
		}
	})

	t.Run("View Filter Present", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Values: []any{"20202020-3ec3-4fe3-8997-b76aa0bfa408"}},
			{Values: []any{true}},
		}}

		score, err := cheggOnly(context.Background(), conn)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if score != 5 {
			t.Errorf("score = %d, want 5", score)
		}
	})

	t.Run("Filter Must Sit On The Company Field", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Values: []any{"20202020-3ec3-4fe3-8997-b76aa0bfa408"}},
			{Values: []any{true}},
		}}

		if _, err := cheggOnly(context.Background(), conn); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(conn.Queries) != 2 {
			t.Fatalf("expected 2 queries, got %d", len(conn.Queries))
		}
		// A filter with the right value on some other field must not score.
		if !strings.Contains(conn.Queries[1], `metadata."fieldMetadata"`) {
			t.Errorf("view filter query does not join field metadata: %s", conn.Queries[1])
		}
		if want := []any{"Chegg only", "company", `{"isCurrentWorkspaceMemberSelected":false,"selectedRecordIds":["20202020-3ec3-4fe3-8997-b76aa0bfa408"]}`}; !reflect.DeepEqual(conn.Args[1], want) {
			t.Errorf("view filter query args = %v, want %v", conn.Args[1], want)
		}
	})

	t.Run("View Filter Absent", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Values: []any{"20202020-3ec3-4fe3-8997-b76aa0bfa408"}},
			{Values: []any{false}},
		}}

		score, err := cheggOnly(context.Background(), conn)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if score != 0 {
			t.Errorf("score = %d, want 0", score)
		}
	})
}

func TestRenameSLBToSchlumberger(t *testing.T) {
	t.Run("Renamed Company Exists", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Values: []any{true}},
		}}

		score, err := renameSLBToSchlumberger(context.Background(), conn)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if score != 10 {
			t.Errorf("score = %d, want 10", score)
		}
	})

	t.Run("No Such Company", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Values: []any{false}},
		}}

		score, err := renameSLBToSchlumberger(context.Background(), conn)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if score != 0 {
			t.Errorf("score = %d, want 0", score)
		}
	})
}

func TestAddCompanies(t *testing.T) {
	tests := []struct {
		name      string
		added     int
		wantScore int
	}{
		{"Nothing Added", 0, 0},
		{"Partial Credit Per Row", 3, 3},
		{"Capped At Full Score", 25, 10},
	}

	seedIDs := []uuid.UUID{
		uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa01"),
		uuid.MustParse("20202020-0713-4cb1-a816-6ef1807daa02"),
	}
	rule := addCompanies(seedIDs)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
				{Values: []any{tt.added}},
			}}

			score, err := rule(context.Background(), conn)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
		})
	}

	t.Run("Baseline Is Seeded IDs Not Names", func(t *testing.T) {
		conn := &mocks.MockScopedConn{RowResults: []mocks.RowResult{
			{Values: []any{0}},
		}}

		if _, err := rule(context.Background(), conn); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		// Renaming a seeded company must stay score-neutral, so the count
		// excludes rows by id rather than by current name.
		if !strings.Contains(conn.Queries[0], "id <> ALL($1)") {
			t.Errorf("baseline query does not exclude by id: %s", conn.Queries[0])
		}
		want := pq.Array([]string{seedIDs[0].String(), seedIDs[1].String()})
		if !reflect.DeepEqual(conn.Args[0], []any{want}) {
			t.Errorf("baseline query args = %v, want %v", conn.Args[0], []any{want})
		}
	})
}
