package opencode

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultOpenMatchesRawRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.py")
	want := []byte("print(1)\n\x00\xffbinary")
	if err := os.WriteFile(path, want, 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var s Slot
	f, err := s.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected raw bytes %q, got %q", want, got)
	}
}

func TestDefaultOpenMissingFile(t *testing.T) {
	var s Slot
	_, err := s.Open(filepath.Join(t.TempDir(), "missing.py"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestOpenRejectsRelativePath(t *testing.T) {
	var s Slot
	_, err := s.Open("relative/f.py")
	if !errors.Is(err, ErrRelativePath) {
		t.Fatalf("expected ErrRelativePath, got %v", err)
	}
}

func TestSetAtMostOnce(t *testing.T) {
	var s Slot

	hookA := func(path string, _ any) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("from A")), nil
	}
	hookB := func(path string, _ any) (io.ReadCloser, error) {
		t.Fatal("hook B must never be invoked")
		return nil, nil
	}

	if err := s.Set(hookA, nil); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := s.Set(hookB, nil); !errors.Is(err, ErrHookSet) {
		t.Fatalf("second set: expected ErrHookSet, got %v", err)
	}

	// Still routes through A after the failed second set.
	f, err := s.Open("/any/path")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, _ := io.ReadAll(f)
	f.Close()
	if string(got) != "from A" {
		t.Errorf("expected content from hook A, got %q", got)
	}
}

func TestHookReturnsInMemoryBuffer(t *testing.T) {
	var s Slot
	err := s.Set(func(path string, _ any) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("print(1)"))), nil
	}, nil)
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	// No file exists at this path; the hook's buffer stands in for it.
	f, err := s.Open("/no/such/file.py")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, _ := io.ReadAll(f)
	f.Close()
	if string(got) != "print(1)" {
		t.Errorf("expected hook buffer, got %q", got)
	}
}

func TestHookErrorPropagates(t *testing.T) {
	var s Slot
	denied := errors.New("denied")
	if err := s.Set(func(string, any) (io.ReadCloser, error) {
		return nil, denied
	}, nil); err != nil {
		t.Fatalf("set: %v", err)
	}

	_, err := s.Open("/any/path")
	if !errors.Is(err, denied) {
		t.Fatalf("expected hook error, got %v", err)
	}
}

func TestHookReceivesUserData(t *testing.T) {
	var s Slot
	var got any
	if err := s.Set(func(path string, userData any) (io.ReadCloser, error) {
		got = userData
		return io.NopCloser(strings.NewReader("")), nil
	}, "token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	f, err := s.Open("/any/path")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	f.Close()
	if got != "token" {
		t.Errorf("expected user data to reach the hook, got %v", got)
	}
}

func TestSetNilHook(t *testing.T) {
	var s Slot
	if err := s.Set(nil, nil); err == nil {
		t.Fatal("expected error for nil hook")
	}
	if s.IsSet() {
		t.Error("failed set must not occupy the slot")
	}
}
