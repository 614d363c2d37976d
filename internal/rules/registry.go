// Package rules holds the rule registry and the built-in verification rules
// shipped with the engine. The registry is populated once at process start
// and is read-only during request handling.
package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/user/workspace-engine/internal/domain"
)

// Registry maps case-sensitive rule names to their implementations. Names
// are stable across process restarts; external callers address rules by
// name. Registration is append-only: duplicate names are a startup
// configuration error.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]domain.RuleFunc
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]domain.RuleFunc)}
}

// Register adds a rule under a name. It fails if the name is empty, the
// function is nil, or the name is already taken.
func (r *Registry) Register(name string, fn domain.RuleFunc) error {
	if name == "" {
		return fmt.Errorf("register rule: empty name")
	}
	if fn == nil {
		return fmt.Errorf("register rule %q: nil function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("register rule %q: duplicate name", name)
	}
	r.rules[name] = fn
	return nil
}

// Lookup returns the rule registered under name, or ErrUnknownRule. A
// retired rule name behaves exactly like one that never existed.
func (r *Registry) Lookup(name string) (domain.RuleFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("rule %q: %w", name, domain.ErrUnknownRule)
	}
	return fn, nil
}

// Names returns the registered rule names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
