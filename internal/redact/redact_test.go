package redact

import (
	"strings"
	"testing"
)

func TestRenderConvertsValues(t *testing.T) {
	got := Render([]any{"path", 42, nil, []string{"a", "b"}}, 0)
	want := []string{"path", "42", "<nil>", "[a b]"}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRenderTruncatesLongValues(t *testing.T) {
	long := strings.Repeat("x", DefaultLimit*2)
	got := Render([]any{long}, 0)
	if len(got[0]) != DefaultLimit {
		t.Errorf("expected %d bytes, got %d", DefaultLimit, len(got[0]))
	}
	if !strings.HasSuffix(got[0], "...") {
		t.Error("truncated value should end with ellipsis")
	}
}

func TestRenderEmptyArgs(t *testing.T) {
	if got := Render(nil, 0); len(got) != 0 {
		t.Errorf("expected empty render, got %v", got)
	}
}

func TestMaskReplacesPositions(t *testing.T) {
	got := Mask([]string{"obj", "attr", "secret"}, []int{2})
	if got[2] != Marker {
		t.Errorf("position 2 should be masked, got %q", got[2])
	}
	if got[0] != "obj" || got[1] != "attr" {
		t.Error("unmasked positions must be untouched")
	}
}

func TestMaskIgnoresOutOfRange(t *testing.T) {
	got := Mask([]string{"only"}, []int{-1, 5})
	if got[0] != "only" {
		t.Errorf("out-of-range positions must be ignored, got %v", got)
	}
}
