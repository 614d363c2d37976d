package domain

import "context"

// RuleFunc is a named verification check run against one tenant's data.
// It reads through the scoped connection and returns a non-negative score,
// computed fresh on every call. A score of 0 means the checked condition is
// not met; a query failure is an error, never a 0.
type RuleFunc func(ctx context.Context, conn ScopedConn) (int, error)

// Result is the outcome of one rule evaluation, returned verbatim to the
// caller.
type Result struct {
	RuleName string `json:"ruleName"`
	Score    int    `json:"score"`
}
