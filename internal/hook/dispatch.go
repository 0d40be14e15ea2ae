package hook

import "fmt"

// Dispatcher delivers one event to the process-wide registry first, then to
// one context's registry, both in insertion order. Call sites are expected
// to check Armed before constructing expensive argument tuples.
type Dispatcher struct {
	Global *Registry
	Local  *Registry
}

// Armed reports whether at least one hook is registered in either registry.
func (d Dispatcher) Armed() bool {
	return d.Global.Len() > 0 || d.Local.Len() > 0
}

// Raise delivers the event to all global hooks, then all context hooks.
// With both registries empty it returns nil immediately without touching
// args. The first hook error aborts the rest of the dispatch and is
// returned as an *AbortError; the caller is contractually required to fail
// the operation that raised the event rather than catch and continue.
func (d Dispatcher) Raise(name string, args []any) error {
	if !d.Armed() {
		return nil
	}
	if err := d.Global.Dispatch(name, args); err != nil {
		return err
	}
	return d.Local.Dispatch(name, args)
}

// AbortError reports that a hook vetoed an audited operation. It wraps the
// hook's own error and records which event was in flight and which hook
// (scope plus position in its registry) stopped the chain. Hooks later in
// the same dispatch were not invoked.
type AbortError struct {
	Event string
	Scope Scope
	Hook  int
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("audit hook aborted %q (%s hook %d): %v", e.Event, e.Scope, e.Hook, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }
