package ppadl

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/acidburn0zzz/ppadl/internal/audit"
	"github.com/acidburn0zzz/ppadl/internal/event"
	"github.com/acidburn0zzz/ppadl/internal/hook"
	"github.com/acidburn0zzz/ppadl/internal/opencode"
	"github.com/acidburn0zzz/ppadl/internal/redact"
)

// Context is one isolated execution context of the host runtime. It owns a
// context-scoped hook registry and the verified-open slot, and shares the
// engine's global registry. All raises made by the runtime instance it
// backs go through its Raise or Audit.
type Context struct {
	engine  *Engine
	local   *hook.Registry
	disp    hook.Dispatcher
	slot    opencode.Slot
	session string
	closed  atomic.Bool
}

// Session returns the identifier used for this context's trail entries.
func (c *Context) Session() string { return c.session }

// Armed reports whether at least one hook would observe a raise. Call
// sites with expensive argument construction should check it first; with
// a recorder configured every raise is observed regardless.
func (c *Context) Armed() bool {
	return c.disp.Armed() || c.engine.trail != nil
}

// AddHook appends an observer to this context's registry. Like global
// registration it raises hook.add first, delivered to global hooks and to
// the context hooks registered so far, so the new hook does not observe its
// own arrival. An abort blocks the registration. No removal exists.
func (c *Context) AddHook(fn HookFunc) error {
	if fn == nil {
		return ErrNilHook
	}
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.raise(event.HookAdd, []any{string(ScopeContext)}); err != nil {
		return err
	}
	c.local.Append(hook.Entry{Fn: hook.Func(fn)})
	return nil
}

// HookCount returns the number of hooks in this context's registry.
func (c *Context) HookCount() int { return c.local.Len() }

// Raise delivers one event to every registered hook: global registry
// first, then this context's registry, each in insertion order, snapshot
// taken at loop entry. With no observers it returns nil immediately
// without touching args. The first hook error stops the dispatch and is
// returned as an *AbortError; the caller must fail the operation it
// brackets.
func (c *Context) Raise(name string, args []any) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.raise(name, args)
}

// Audit is the script-facing variant of Raise.
func (c *Context) Audit(name string, args ...any) error {
	return c.Raise(name, args)
}

func (c *Context) raise(name string, args []any) error {
	if !c.Armed() {
		return nil
	}
	if !event.ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidEventName, name)
	}
	if c.engine.strict {
		if err := c.engine.catalog.CheckArity(name, len(args)); err != nil {
			return err
		}
	}

	err := c.disp.Raise(name, args)

	if c.engine.trail != nil {
		if rerr := c.recordRaise(name, args, err); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}

func (c *Context) recordRaise(name string, args []any, dispatchErr error) error {
	rendered := redact.Render(args, redact.DefaultLimit)
	if ev, ok := c.engine.catalog.Lookup(name); ok {
		rendered = redact.Mask(rendered, ev.Sensitive)
	}

	entry := audit.Entry{
		Session:  c.session,
		Event:    name,
		Args:     rendered,
		Decision: audit.DecisionDelivered,
	}
	if dispatchErr != nil {
		entry.Decision = audit.DecisionAborted
		entry.Reason = dispatchErr.Error()
		var abort *AbortError
		if errors.As(dispatchErr, &abort) {
			entry.Scope = string(abort.Scope)
		}
	}
	return c.engine.record(entry)
}

// SetOpenCodeHook installs the verified-open override for this context.
// The slot is set at most once: a second call returns ErrOpenCodeHookSet
// without side effects and without invoking either hook, and there is no
// way to clear the slot afterwards.
func (c *Context) SetOpenCodeHook(fn OpenCodeFunc, userData any) error {
	if fn == nil {
		return ErrNilHook
	}
	if c.closed.Load() {
		return ErrClosed
	}
	return c.slot.Set(opencode.Func(fn), userData)
}

// OpenCode opens path, which must already be fully resolved and absolute,
// as executable source. It raises code.open first, so observers can veto
// the load; then, with no override set, it performs a raw read-only binary
// open, otherwise the override's returned reader is handed back verbatim.
//
// Every runtime pathway that loads a file specifically to execute its
// contents must route through OpenCode. Pathways that open files for any
// other reason must not.
func (c *Context) OpenCode(path string) (io.ReadCloser, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if err := c.raise(event.CodeOpen, []any{path}); err != nil {
		return nil, err
	}
	return c.slot.Open(path)
}

// Close tears the context down: it raises runtime.teardown to the full
// chain (delivery-only, abort errors are ignored since the context is
// going away either way) and then drains the context registry. Close is
// idempotent; operations after it return ErrClosed.
func (c *Context) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = c.raise(event.Teardown, nil)
	c.local.Drain()
	return nil
}
