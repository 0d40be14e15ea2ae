// Package opencode implements the single-slot verified-open path: the one
// file-open route reserved for content that will be executed as code,
// separate from general-purpose file I/O. Pathways that open files for any
// other reason (deserialization, inspection, copying) must not use it.
package opencode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Func is the verified-open override. It receives the fully resolved path
// and the opaque user context supplied when the slot was set, and returns a
// raw-byte-readable object standing in for the file. The hook may perform
// the physical open itself, substitute an in-memory buffer, or return an
// error, in which case no content is made available.
type Func func(path string, userData any) (io.ReadCloser, error)

var (
	// ErrHookSet is returned by Set when the slot is already occupied.
	ErrHookSet = errors.New("opencode: hook already set")

	// ErrRelativePath is returned by Open for a path that is not absolute.
	// The caller resolves paths; Open does not.
	ErrRelativePath = errors.New("opencode: path must be absolute")
)

// Slot holds the single optional verified-open override. The only state
// transition is unset to set, made once by the first successful Set; there
// is no unset or replacement transition.
type Slot struct {
	mu       sync.Mutex
	fn       Func
	userData any
}

// Set installs the override. A second call fails with ErrHookSet without
// side effects and without invoking either hook.
func (s *Slot) Set(fn Func, userData any) error {
	if fn == nil {
		return errors.New("opencode: nil hook")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fn != nil {
		return ErrHookSet
	}
	s.fn = fn
	s.userData = userData
	return nil
}

// IsSet reports whether the override has been installed.
func (s *Slot) IsSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

// Open opens path as executable source. With no hook set it behaves as a
// raw read-only binary open; otherwise the hook's return value is handed
// back verbatim.
func (s *Slot) Open(path string) (io.ReadCloser, error) {
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: %q", ErrRelativePath, path)
	}
	s.mu.Lock()
	fn, userData := s.fn, s.userData
	s.mu.Unlock()
	if fn == nil {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opencode: %w", err)
		}
		return f, nil
	}
	return fn(path, userData)
}
