package ppadl

import (
	"errors"
	"io"

	"github.com/acidburn0zzz/ppadl/internal/event"
	"github.com/acidburn0zzz/ppadl/internal/hook"
	"github.com/acidburn0zzz/ppadl/internal/opencode"
)

// HookFunc is an observer. It receives the event name, the argument tuple
// (live references, not copies; do not mutate), and the opaque user
// context supplied at registration. Returning a non-nil error aborts the
// remainder of the dispatch and fails the operation that raised the event.
type HookFunc func(name string, args []any, userData any) error

// OpenCodeFunc is the verified-open override. See Context.SetOpenCodeHook.
type OpenCodeFunc func(path string, userData any) (io.ReadCloser, error)

// Scope identifies which registry a hook lives in.
type Scope = hook.Scope

const (
	ScopeGlobal  = hook.ScopeGlobal
	ScopeContext = hook.ScopeContext
)

// AbortError is the strong failure type returned from Raise and Audit when
// a hook vetoes an event. Call sites must propagate it and fail the guarded
// operation; catching and continuing is a misuse of the mechanism.
type AbortError = hook.AbortError

var (
	// ErrOpenCodeHookSet is returned by SetOpenCodeHook when the slot is
	// already occupied.
	ErrOpenCodeHookSet = opencode.ErrHookSet

	// ErrNilHook is returned when registering a nil callable.
	ErrNilHook = errors.New("ppadl: nil hook")

	// ErrClosed is returned by operations on a context after Close.
	ErrClosed = errors.New("ppadl: context closed")

	// ErrInvalidEventName is returned for names that are empty or
	// malformed. Only reported when at least one observer would see the
	// event; the zero-hook fast path returns before any validation.
	ErrInvalidEventName = errors.New("ppadl: invalid event name")
)

// Event names raised by the engine itself.
const (
	EventHookAdd  = event.HookAdd
	EventTeardown = event.Teardown
	EventCodeOpen = event.CodeOpen
)
