package ppadl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acidburn0zzz/ppadl/internal/audit"
	"github.com/acidburn0zzz/ppadl/internal/redact"
)

func newRecordedEngine(t *testing.T, opts ...Option) (*Engine, string) {
	t.Helper()
	trailPath := filepath.Join(t.TempDir(), "trail.jsonl")
	eng := newTestEngine(t, append([]Option{WithRecorder(trailPath)}, opts...)...)
	return eng, trailPath
}

func TestRecorderWritesVerifiableTrail(t *testing.T) {
	eng, trailPath := newRecordedEngine(t)
	rt := eng.NewContext(WithSessionID("x-rec"))

	if err := rt.AddHook(func(string, []any, any) error { return nil }); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := rt.Audit("code.compile", "print(1)", "<stdin>"); err != nil {
		t.Fatalf("audit: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("engine close: %v", err)
	}

	result := audit.Verify(trailPath)
	if !result.Valid {
		t.Fatalf("trail invalid at line %d: %s", result.ErrorLine, result.Error)
	}

	replay, err := audit.Replay(trailPath, audit.Filter{Session: "x-rec"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	// hook.add, code.compile, runtime.teardown, in raise order.
	var names []string
	for _, e := range replay.Entries {
		names = append(names, e.Event)
	}
	want := []string{EventHookAdd, "code.compile", EventTeardown}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestRecorderObservesZeroHookRaises(t *testing.T) {
	eng, trailPath := newRecordedEngine(t)
	rt := eng.NewContext(WithSessionID("x-rec"))
	defer rt.Close()

	if !rt.Armed() {
		t.Fatal("a recorded context counts as observed")
	}
	if err := rt.Audit("module.resolve", "db", "/lib/db.py", nil, nil, nil); err != nil {
		t.Fatalf("audit: %v", err)
	}

	replay, err := audit.Replay(trailPath, audit.Filter{Event: "module.resolve"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.Summary.Total != 1 {
		t.Fatalf("expected recorded entry without any hook, got %d", replay.Summary.Total)
	}
}

func TestRecorderMarksAborts(t *testing.T) {
	eng, trailPath := newRecordedEngine(t)
	rt := eng.NewContext(WithSessionID("x-rec"))
	defer rt.Close()

	if err := eng.AddGlobalHook(func(name string, _ []any, _ any) error {
		if name == "library.load" {
			return errors.New("vetoed")
		}
		return nil
	}, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := rt.Audit("library.load", "/lib.so"); err == nil {
		t.Fatal("expected veto")
	}

	replay, err := audit.Replay(trailPath, audit.Filter{Event: "library.load"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.Summary.Aborted != 1 {
		t.Fatalf("expected aborted entry, got %+v", replay.Summary)
	}
	entry := replay.Entries[0]
	if entry.Scope != string(ScopeGlobal) {
		t.Errorf("expected global scope, got %q", entry.Scope)
	}
	if !strings.Contains(entry.Reason, "vetoed") {
		t.Errorf("expected veto reason, got %q", entry.Reason)
	}
}

func TestRecorderMasksSensitivePositions(t *testing.T) {
	eng, trailPath := newRecordedEngine(t)
	rt := eng.NewContext(WithSessionID("x-rec"))
	defer rt.Close()

	// object.setattr declares position 2 (the value) sensitive.
	if err := rt.Audit("object.setattr", "conn", "password", "hunter2"); err != nil {
		t.Fatalf("audit: %v", err)
	}

	replay, err := audit.Replay(trailPath, audit.Filter{Event: "object.setattr"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	args := replay.Entries[0].Args
	if len(args) != 3 || args[2] != redact.Marker {
		t.Fatalf("sensitive position not masked: %v", args)
	}
	if args[0] != "conn" || args[1] != "password" {
		t.Errorf("non-sensitive positions altered: %v", args)
	}
}

func TestRecorderHonorsCustomCatalog(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "catalog.yaml")
	content := `events:
  - name: secrets.read
    args: [vault, key]
    sensitive: [1]
`
	if err := os.WriteFile(catPath, []byte(content), 0600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	eng, trailPath := newRecordedEngine(t, WithCatalog(catPath))
	rt := eng.NewContext(WithSessionID("x-rec"))
	defer rt.Close()

	if err := rt.Audit("secrets.read", "prod", "db-password"); err != nil {
		t.Fatalf("audit: %v", err)
	}

	replay, err := audit.Replay(trailPath, audit.Filter{Event: "secrets.read"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got := replay.Entries[0].Args[1]; got != redact.Marker {
		t.Errorf("custom sensitive position not masked, got %q", got)
	}
}
