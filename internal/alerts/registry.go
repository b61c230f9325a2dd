// Package alerts tracks which scenario alerts have been resolved. The
// registry is the single source of truth consulted both when re-deriving the
// current working series and when regenerating a series later, so resolution
// takes effect immediately and is remembered across generations.
package alerts

import "sync"

// Registry is an idempotent resolved-alert set.
type Registry struct {
	mu       sync.Mutex
	resolved map[int]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolved: make(map[int]bool)}
}

// Resolve marks an alert resolved. Resolving an already-resolved alert is a
// no-op.
func (r *Registry) Resolve(alertID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved[alertID] = true
}

// Unresolve reopens an alert. Reopening an open alert is a no-op.
func (r *Registry) Unresolve(alertID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resolved, alertID)
}

// IsResolved reports whether an alert has been resolved.
func (r *Registry) IsResolved(alertID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved[alertID]
}

// Resolved returns a copy of the resolved-id set.
func (r *Registry) Resolved() map[int]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]bool, len(r.resolved))
	for id := range r.resolved {
		out[id] = true
	}
	return out
}
