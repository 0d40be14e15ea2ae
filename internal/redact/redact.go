// Package redact renders event argument tuples into loggable strings and
// masks positions the catalogue marks sensitive. Arguments are live objects
// owned by the runtime; rendering is the only copy the trail ever takes.
package redact

import "fmt"

// Marker replaces the rendered value at a sensitive position.
const Marker = "[redacted]"

// DefaultLimit bounds the rendered length of a single argument.
const DefaultLimit = 256

// Render converts raw argument values into strings, truncating each to
// limit bytes. Limits too small to hold a truncation marker fall back to
// DefaultLimit.
func Render(args []any, limit int) []string {
	if limit < 4 {
		limit = DefaultLimit
	}
	out := make([]string, len(args))
	for i, a := range args {
		s := fmt.Sprintf("%v", a)
		if len(s) > limit {
			s = s[:limit-3] + "..."
		}
		out[i] = s
	}
	return out
}

// Mask replaces the values at the given positions with Marker. Positions
// outside the slice are ignored; the input is modified in place and
// returned.
func Mask(rendered []string, positions []int) []string {
	for _, p := range positions {
		if p >= 0 && p < len(rendered) {
			rendered[p] = Marker
		}
	}
	return rendered
}
