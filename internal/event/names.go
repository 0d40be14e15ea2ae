// Package event holds the names of the events the engine itself raises and
// the validation rule for collaborator-supplied names.
//
// Names are stable identifiers: once published for a feature line, neither
// the name nor the arity/order of its argument tuple may silently change.
// Dotted namespacing (component.action) keeps independent subsystems from
// colliding.
package event

import "strings"

// Events raised by the engine itself. Everything else in the catalogue is
// raised by collaborator call sites.
const (
	HookAdd       = "hook.add"         // before a hook is appended to a registry
	Teardown      = "runtime.teardown" // context close; delivery-only, aborts ignored
	CodeOpen      = "code.open"        // every verified open, before hook or default
	CodeCompile   = "code.compile"
	ModuleLoad    = "module.resolve"
	LibraryLoad   = "library.load"
	ObjectSetAttr = "object.setattr"
)

// ValidName reports whether name is usable as an event identifier:
// non-empty, no whitespace, no leading or trailing dot.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, " \t\n") {
		return false
	}
	return !strings.HasPrefix(name, ".") && !strings.HasSuffix(name, ".")
}
