package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/user/workspace-engine/internal/domain"
)

// MockTenantDirectory is an in-memory implementation of
// domain.TenantDirectory for testing.
type MockTenantDirectory struct {
	mu           sync.Mutex
	ByOrigin     map[string]*domain.Tenant
	ByID         map[uuid.UUID]*domain.Tenant
	Default      *domain.Tenant
	ResolveErr   error
	FindErr      error
	ResolveCalls int
}

func (m *MockTenantDirectory) ResolveOrigin(ctx context.Context, origin string) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveCalls++
	if m.ResolveErr != nil {
		return nil, m.ResolveErr
	}
	if t, ok := m.ByOrigin[origin]; ok {
		return t, nil
	}
	if m.Default != nil {
		return m.Default, nil
	}
	return nil, fmt.Errorf("origin %q: %w", origin, domain.ErrTenantUnresolved)
}

func (m *MockTenantDirectory) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if t, ok := m.ByID[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("tenant %s: %w", id, domain.ErrTenantUnresolved)
}

// RowResult scripts one QueryRowContext answer: the values scanned into the
// caller's destinations, or an error returned from Scan.
type RowResult struct {
	Values []any
	Err    error
}

// MockScopedConn is a scripted implementation of domain.ScopedConn. Row
// results are consumed in call order; queries are recorded for assertions.
type MockScopedConn struct {
	mu         sync.Mutex
	Tenant     uuid.UUID
	Schema     string
	RowResults []RowResult
	QueryRows  [][]any
	QueryErr   error
	Queries    []string
	Args       [][]any
	Released   bool
	ReleaseErr error

	next int
}

func (m *MockScopedConn) TenantID() uuid.UUID { return m.Tenant }

func (m *MockScopedConn) SchemaName() string { return m.Schema }

func (m *MockScopedConn) QueryRowContext(ctx context.Context, query string, args ...any) domain.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	m.Args = append(m.Args, args)
	if m.next >= len(m.RowResults) {
		return &mockRow{err: fmt.Errorf("unscripted query %d: %s", m.next, query)}
	}
	res := m.RowResults[m.next]
	m.next++
	return &mockRow{values: res.Values, err: res.Err}
}

func (m *MockScopedConn) QueryContext(ctx context.Context, query string, args ...any) (domain.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	m.Args = append(m.Args, args)
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return &mockRows{rows: m.QueryRows}, nil
}

func (m *MockScopedConn) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Released = true
	return m.ReleaseErr
}

type mockRow struct {
	values []any
	err    error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d scripted values", len(dest), len(r.values))
	}
	for i, d := range dest {
		if err := assign(d, r.values[i]); err != nil {
			return err
		}
	}
	return nil
}

func assign(dest, val any) error {
	switch d := dest.(type) {
	case *int:
		v, ok := val.(int)
		if !ok {
			return fmt.Errorf("scan: scripted value %v is not an int", val)
		}
		*d = v
	case *int64:
		v, ok := val.(int64)
		if !ok {
			return fmt.Errorf("scan: scripted value %v is not an int64", val)
		}
		*d = v
	case *bool:
		v, ok := val.(bool)
		if !ok {
			return fmt.Errorf("scan: scripted value %v is not a bool", val)
		}
		*d = v
	case *string:
		v, ok := val.(string)
		if !ok {
			return fmt.Errorf("scan: scripted value %v is not a string", val)
		}
		*d = v
	default:
		return fmt.Errorf("scan: unsupported destination type %T", dest)
	}
	return nil
}

type mockRows struct {
	rows [][]any
	idx  int
}

func (r *mockRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *mockRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d scripted values", len(dest), len(row))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *mockRows) Err() error   { return nil }
func (r *mockRows) Close() error { return nil }

// MockScopedExecConn adds scripted write support to MockScopedConn. When
// ExecErrOn is set, ExecErr applies only to statements containing that
// substring; later statements on the same connection still succeed.
type MockScopedExecConn struct {
	MockScopedConn
	ExecErr     error
	ExecErrOn   string
	ExecQueries []string
}

func (m *MockScopedExecConn) ExecContext(ctx context.Context, query string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExecQueries = append(m.ExecQueries, query)
	if m.ExecErr != nil && (m.ExecErrOn == "" || strings.Contains(query, m.ExecErrOn)) {
		return m.ExecErr
	}
	return nil
}

// MockConnProvider is a mock implementation of domain.ConnProvider that
// counts acquisitions, for asserting that cheap failures never lease a
// connection.
type MockConnProvider struct {
	mu               sync.Mutex
	Conn             *MockScopedConn
	ExecConn         *MockScopedExecConn
	AcquireErr       error
	AcquireExecErr   error
	AcquireCalls     int
	AcquireExecCalls int
}

func (m *MockConnProvider) Acquire(ctx context.Context, tenantID uuid.UUID) (domain.ScopedConn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AcquireCalls++
	if m.AcquireErr != nil {
		return nil, m.AcquireErr
	}
	return m.Conn, nil
}

func (m *MockConnProvider) AcquireExec(ctx context.Context, tenantID uuid.UUID) (domain.ScopedExecConn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AcquireExecCalls++
	if m.AcquireExecErr != nil {
		return nil, m.AcquireExecErr
	}
	return m.ExecConn, nil
}

// MockLifecycleStore records the order of lifecycle operations.
type MockLifecycleStore struct {
	mu          sync.Mutex
	DeleteErr   error
	InitErr     error
	DeleteCalls int
	InitCalls   int
	CallOrder   []string
}

func (m *MockLifecycleStore) DeleteTenantData(ctx context.Context, conn domain.ScopedExecConn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	m.CallOrder = append(m.CallOrder, "delete")
	return m.DeleteErr
}

func (m *MockLifecycleStore) InitDemoData(ctx context.Context, conn domain.ScopedExecConn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitCalls++
	m.CallOrder = append(m.CallOrder, "init")
	return m.InitErr
}
