package audit

import (
	"path/filepath"
	"testing"
)

func populatedTrail(t *testing.T) string {
	t.Helper()
	tr, path := newTestTrail(t)
	entries := []Entry{
		{Session: "x-a", Event: "code.open", Args: []string{"/a.py"}, Decision: DecisionDelivered},
		{Session: "x-a", Event: "library.load", Args: []string{"/lib.so"}, Decision: DecisionAborted, Scope: "global", Reason: "vetoed"},
		{Session: "x-b", Event: "code.open", Args: []string{"/b.py"}, Decision: DecisionDelivered},
	}
	for _, e := range entries {
		if err := tr.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	tr.Close()
	return path
}

func openTestIndex(t *testing.T, trailPath string) *Index {
	t.Helper()
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	if _, err := ix.Rebuild(trailPath); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	return ix
}

func TestIndexQueryMatchesReplay(t *testing.T) {
	trailPath := populatedTrail(t)
	ix := openTestIndex(t, trailPath)

	filters := []Filter{
		{},
		{Session: "x-a"},
		{Event: "code.open"},
		{Decision: DecisionAborted},
	}
	for _, f := range filters {
		fromIndex, err := ix.Query(f)
		if err != nil {
			t.Fatalf("query %+v: %v", f, err)
		}
		fromReplay, err := Replay(trailPath, f)
		if err != nil {
			t.Fatalf("replay %+v: %v", f, err)
		}
		if len(fromIndex) != len(fromReplay.Entries) {
			t.Fatalf("filter %+v: index returned %d entries, replay %d",
				f, len(fromIndex), len(fromReplay.Entries))
		}
		for i := range fromIndex {
			got, want := fromIndex[i], fromReplay.Entries[i]
			if got.Event != want.Event || got.Session != want.Session ||
				got.Decision != want.Decision || got.Reason != want.Reason {
				t.Errorf("filter %+v entry %d: index %+v, replay %+v", f, i, got, want)
			}
		}
	}
}

func TestIndexPreservesArgs(t *testing.T) {
	trailPath := populatedTrail(t)
	ix := openTestIndex(t, trailPath)

	entries, err := ix.Query(Filter{Event: "library.load"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].Args) != 1 || entries[0].Args[0] != "/lib.so" {
		t.Errorf("args not round-tripped: %v", entries[0].Args)
	}
}

func TestRebuildReplacesContents(t *testing.T) {
	trailPath := populatedTrail(t)
	ix := openTestIndex(t, trailPath)

	// Rebuilding from the same trail must not duplicate rows.
	n, err := ix.Rebuild(trailPath)
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 entries, got %d", n)
	}
	entries, err := ix.Query(Filter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 rows after rebuild, got %d", len(entries))
	}
}
