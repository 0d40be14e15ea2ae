package ppadl

import (
	"fmt"

	"github.com/acidburn0zzz/ppadl/internal/audit"
	"github.com/acidburn0zzz/ppadl/internal/catalog"
	"github.com/acidburn0zzz/ppadl/internal/event"
	"github.com/acidburn0zzz/ppadl/internal/hook"
)

// Engine owns the process-wide hook registry, the event catalogue, and the
// optional trail recorder. It is an explicit singleton: collaborators that
// raise events receive it (via a Context) by reference, and tests build
// isolated engines. Safe for concurrent use.
type Engine struct {
	global  *hook.Registry
	catalog *catalog.Catalog
	strict  bool
	trail   *audit.Trail
}

// NewEngine creates an Engine with the given options. Global hooks may be
// registered before any execution context exists.
func NewEngine(opts ...Option) (*Engine, error) {
	var cfg engineConfig
	for _, o := range opts {
		o(&cfg)
	}

	cat, err := catalog.Load(cfg.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("ppadl: load catalog: %w", err)
	}

	e := &Engine{
		global:  hook.NewRegistry(hook.ScopeGlobal),
		catalog: cat,
		strict:  cfg.strict,
	}

	if cfg.trailPath != "" {
		trail, err := audit.Open(cfg.trailPath)
		if err != nil {
			return nil, fmt.Errorf("ppadl: open trail: %w", err)
		}
		e.trail = trail
	}
	return e, nil
}

// AddGlobalHook appends an observer to the process-wide registry. The
// append itself raises the hook.add event to the hooks already registered;
// the new hook is not yet appended when that notification fires, so it does
// not observe its own arrival. An existing hook that aborts the
// notification blocks the registration.
//
// There is no way to remove the hook afterwards.
func (e *Engine) AddGlobalHook(fn HookFunc, userData any) error {
	if fn == nil {
		return ErrNilHook
	}
	if err := e.global.Dispatch(event.HookAdd, []any{string(ScopeGlobal)}); err != nil {
		return err
	}
	e.global.Append(hook.Entry{Fn: hook.Func(fn), UserData: userData})
	return nil
}

// GlobalHookCount returns the number of registered process-wide hooks.
func (e *Engine) GlobalHookCount() int {
	return e.global.Len()
}

// Catalog reports whether the engine's catalogue knows the event and, if
// so, its declared argument labels.
func (e *Engine) Catalog(name string) ([]string, bool) {
	ev, ok := e.catalog.Lookup(name)
	if !ok {
		return nil, false
	}
	return ev.Args, true
}

// NewContext creates an isolated execution context: its own append-only
// hook registry and its own verified-open slot, sharing the engine's global
// registry, catalogue, and trail.
func (e *Engine) NewContext(opts ...ContextOption) *Context {
	var cfg contextConfig
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.session == "" {
		cfg.session = audit.NewSessionID()
	}

	local := hook.NewRegistry(hook.ScopeContext)
	return &Context{
		engine:  e,
		local:   local,
		disp:    hook.Dispatcher{Global: e.global, Local: local},
		session: cfg.session,
	}
}

// Close releases the trail recorder, if any. Contexts must be closed
// first.
func (e *Engine) Close() error {
	if e.trail == nil {
		return nil
	}
	return e.trail.Close()
}

// record writes one trail entry for a settled raise. Recording failures
// surface to the raise caller only when dispatch itself succeeded; an abort
// already carries the primary failure.
func (e *Engine) record(entry audit.Entry) error {
	if err := e.trail.Record(entry); err != nil {
		return fmt.Errorf("ppadl: record event: %w", err)
	}
	return nil
}
