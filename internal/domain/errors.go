package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantUnresolved is returned when no tenant matches an origin or id
	// and no default-tenant fallback applies. It is an expected outcome for
	// unregistered origins, distinct from directory backend failures.
	ErrTenantUnresolved = errors.New("tenant unresolved")

	// ErrUnknownRule is returned for a lookup of a rule name that was never
	// registered or has been retired.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrConnectionUnavailable indicates the pool is exhausted or the backend
	// is unreachable. Callers may retry with backoff.
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// ErrSchemaMissing indicates the tenant record exists but its schema does
	// not. Not retryable; the tenant needs re-provisioning.
	ErrSchemaMissing = errors.New("tenant schema missing")
)

// RuleExecutionError wraps a backend failure raised by a rule's own queries.
// It always carries the rule name so a genuine failure is distinguishable
// from a legitimate score of 0 in logs and responses.
type RuleExecutionError struct {
	Rule string
	Err  error
}

func (e *RuleExecutionError) Error() string {
	return fmt.Sprintf("rule %q execution failed: %v", e.Rule, e.Err)
}

func (e *RuleExecutionError) Unwrap() error { return e.Err }

// Stages of a tenant reset, used by LifecycleError to report which half of
// the delete-then-reinit pair failed.
const (
	LifecycleStageDelete = "delete"
	LifecycleStageInit   = "init"
)

// LifecycleError reports a failed tenant reset. Stage identifies the failed
// step: a failure at LifecycleStageInit means the delete already completed
// and the tenant is empty but not reinitialized, which callers must be able
// to tell apart from full success and from a failed delete.
type LifecycleError struct {
	Stage string
	Err   error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("tenant reset failed during %s: %v", e.Stage, e.Err)
}

func (e *LifecycleError) Unwrap() error { return e.Err }
