package hook

// Func is an observer callable. It receives the event name, the argument
// tuple, and the opaque user context supplied at registration. A non-nil
// error aborts the remainder of the dispatch and fails the audited
// operation.
type Func func(name string, args []any, userData any) error

// Scope tags a hook entry with the registry it was registered in.
// Global hooks are typically embedder-installed and run before context
// hooks; the separation encodes a trust hierarchy, not an implementation
// detail.
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeContext Scope = "context"
)

// Entry is one registered observer: the callable, its opaque user context,
// and the scope it was registered in. Entries are never removed or replaced
// once appended; duplicates are legal.
type Entry struct {
	Fn       Func
	UserData any
	Scope    Scope
}
