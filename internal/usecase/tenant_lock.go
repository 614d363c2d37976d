package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// TenantLocks hands out one RWMutex per tenant. Evaluations take the read
// side so they can run concurrently with each other; a reset takes the write
// side so it never races an in-flight evaluation over the data it replaces.
type TenantLocks struct {
	locks sync.Map // uuid.UUID -> *sync.RWMutex
}

// NewTenantLocks creates an empty lock table.
func NewTenantLocks() *TenantLocks {
	return &TenantLocks{}
}

// Get returns the lock for a tenant, creating it on first use.
func (t *TenantLocks) Get(id uuid.UUID) *sync.RWMutex {
	if lock, ok := t.locks.Load(id); ok {
		return lock.(*sync.RWMutex)
	}
	lock, _ := t.locks.LoadOrStore(id, &sync.RWMutex{})
	return lock.(*sync.RWMutex)
}
