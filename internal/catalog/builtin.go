package catalog

import "github.com/acidburn0zzz/ppadl/internal/event"

// builtinEvents is the compiled-in catalogue. The first three are raised by
// the engine itself; the rest are the call sites every host runtime is
// expected to route through the dispatcher.
var builtinEvents = []Event{
	{
		Name:     event.HookAdd,
		Args:     []string{"scope"},
		Brackets: "appending a hook to the global or context registry",
	},
	{
		Name:     event.Teardown,
		Args:     []string{},
		Brackets: "execution context teardown; delivery-only",
	},
	{
		Name:     event.CodeOpen,
		Args:     []string{"path"},
		Brackets: "opening a file whose content will be executed as code",
	},
	{
		Name:     event.CodeCompile,
		Args:     []string{"source", "filename"},
		Brackets: "dynamic compilation of source text",
	},
	{
		Name:     event.ModuleLoad,
		Args:     []string{"name", "path", "spec", "target", "loader"},
		Brackets: "module resolution and import",
	},
	{
		Name:     event.LibraryLoad,
		Args:     []string{"path"},
		Brackets: "loading a native library into the process",
	},
	{
		Name:      event.ObjectSetAttr,
		Args:      []string{"object", "name", "value"},
		Sensitive: []int{2},
		Brackets:  "mutating an attribute on a live object",
	},
}
