package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/workspace-engine/internal/domain"
)

// Scores awarded by the built-in rules. Full credit for data-mutation tasks,
// partial credit for the view-configuration task.
const (
	fullScore = 10
	viewScore = 5
)

// RegisterBuiltin registers the shipped verification rules. seedCompanyIDs
// is the set of company ids present in the demo fixture; add-10-companies
// scores companies created beyond that set.
func RegisterBuiltin(reg *Registry, seedCompanyIDs []uuid.UUID) error {
	builtin := map[string]domain.RuleFunc{
		"delete-microsoft-people":    deleteMicrosoftPeople,
		"chegg-only":                 cheggOnly,
		"rename-slb-to-schlumberger": renameSLBToSchlumberger,
		"add-10-companies":           addCompanies(seedCompanyIDs),
	}
	for name, fn := range builtin {
		if err := reg.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// deleteMicrosoftPeople verifies the task "delete all people that work at
// Microsoft". Two counts over the person⋈company join: the rows still live
// (deletedAt unset) and the rows overall. Full score only when every joined
// row is soft-deleted AND at least one joined row exists at all; an
// always-empty match set earns nothing.
func deleteMicrosoftPeople(ctx context.Context, conn domain.ScopedConn) (int, error) {
	var remaining int
	err := conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM person p
		JOIN company c ON p."companyId" = c.id
		WHERE c.name ILIKE $1
		  AND p."deletedAt" IS NULL`, "microsoft").Scan(&remaining)
	if err != nil {
		return 0, fmt.Errorf("count remaining people: %w", err)
	}

	var total int
	err = conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM person p
		JOIN company c ON p."companyId" = c.id
		WHERE c.name ILIKE $1`, "microsoft").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count all people: %w", err)
	}

	if remaining == 0 && total > 0 {
		return fullScore, nil
	}
	return 0, nil
}

// cheggOnly verifies the task "create a view that filters people down to
// those that work at Chegg Inc., called 'Chegg only'". The view filter must
// sit on the company field and its value must select exactly the Chegg Inc.
// company record.
func cheggOnly(ctx context.Context, conn domain.ScopedConn) (int, error) {
	var companyID string
	err := conn.QueryRowContext(ctx, `
		SELECT id
		FROM company
		WHERE name = $1
		  AND "deletedAt" IS NULL
		LIMIT 1`, "Chegg Inc.").Scan(&companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find Chegg Inc. company: %w", err)
	}

	// The filter value is JSON built from the trusted company id and passed
	// as a bound parameter, never interpolated into the statement.
	filterValue := fmt.Sprintf(`{"isCurrentWorkspaceMemberSelected":false,"selectedRecordIds":[%q]}`, companyID)

	var exists bool
	err = conn.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM view v
			JOIN "viewFilter" vf ON vf."viewId" = v.id
			JOIN metadata."fieldMetadata" fm ON fm.id = vf."fieldMetadataId"
			WHERE v.name = $1
			  AND fm.name = $2
			  AND vf.value = $3
		)`, "Chegg only", "company", filterValue).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("find view filter: %w", err)
	}

	if exists {
		return viewScore, nil
	}
	return 0, nil
}

// renameSLBToSchlumberger verifies the task "rename the company SLB to
// Schlumberger": a live company row with the new name must exist.
func renameSLBToSchlumberger(ctx context.Context, conn domain.ScopedConn) (int, error) {
	var exists bool
	err := conn.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM company
			WHERE name = $1
			  AND "deletedAt" IS NULL
		)`, "Schlumberger").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("find renamed company: %w", err)
	}

	if exists {
		return fullScore, nil
	}
	return 0, nil
}

// addCompanies builds the rule for the task "add 10 companies": one point
// per live company beyond the demo fixture's seed set, capped at fullScore.
// The baseline is the seeded ids, not names, so renaming a seeded company
// never counts as adding one. The score is recomputed from the data on every
// call; nothing accumulates across calls.
func addCompanies(seedIDs []uuid.UUID) domain.RuleFunc {
	ids := make([]string, len(seedIDs))
	for i, id := range seedIDs {
		ids[i] = id.String()
	}
	return func(ctx context.Context, conn domain.ScopedConn) (int, error) {
		var added int
		err := conn.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM company
			WHERE "deletedAt" IS NULL
			  AND id <> ALL($1)`, pq.Array(ids)).Scan(&added)
		if err != nil {
			return 0, fmt.Errorf("count added companies: %w", err)
		}

		if added > fullScore {
			return fullScore, nil
		}
		return added, nil
	}
}
