package hook

import (
	"sync"
	"sync/atomic"
)

// Registry is an append-only ordered list of hook entries. There is no
// removal API: code that has already executed must not be able to suppress
// hooks installed by more privileged code that ran earlier. The only way a
// registry empties is Drain, called by the owning context's teardown.
//
// Appends are visible to all subsequent dispatches on any goroutine.
type Registry struct {
	scope   Scope
	mu      sync.Mutex
	entries []Entry
	count   atomic.Int64
}

// NewRegistry creates an empty registry for the given scope.
func NewRegistry(scope Scope) *Registry {
	return &Registry{scope: scope}
}

// Scope returns the scope tag applied to entries of this registry.
func (r *Registry) Scope() Scope { return r.scope }

// Append adds an entry. It never fails and returns no token usable to
// remove the entry.
func (r *Registry) Append(e Entry) {
	e.Scope = r.scope
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
	r.count.Add(1)
}

// Len returns the number of registered entries without taking the lock.
func (r *Registry) Len() int {
	return int(r.count.Load())
}

// snapshot returns the entry list as of now. Entries are append-only, so
// the returned slice header stays valid while later appends reallocate;
// a dispatch iterating a snapshot never observes hooks added after it was
// taken.
func (r *Registry) snapshot() []Entry {
	r.mu.Lock()
	s := r.entries
	r.mu.Unlock()
	return s
}

// Dispatch invokes every entry in insertion order with the given event.
// The first entry to return an error stops the iteration; the error is
// wrapped in an *AbortError identifying the event, scope, and position.
// Entries appended while Dispatch runs are not visited (snapshot at entry).
func (r *Registry) Dispatch(name string, args []any) error {
	for i, e := range r.snapshot() {
		if err := e.Fn(name, args, e.UserData); err != nil {
			return &AbortError{Event: name, Scope: e.Scope, Hook: i, Err: err}
		}
	}
	return nil
}

// Drain discards every entry. Only the owning execution context's teardown
// may call this, after the teardown event has been delivered.
func (r *Registry) Drain() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
	r.count.Store(0)
}
