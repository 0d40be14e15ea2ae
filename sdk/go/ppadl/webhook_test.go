package ppadl

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestWebhookHookMirrorsEvents(t *testing.T) {
	var mu sync.Mutex
	var received []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p map[string]any
		_ = json.Unmarshal(body, &p)
		mu.Lock()
		received = append(received, p)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	eng := newTestEngine(t)
	rt := eng.NewContext()
	defer rt.Close()

	if err := eng.AddGlobalHook(WebhookHook(srv.URL), nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := rt.Audit("code.compile", "print(1)", "<stdin>"); err != nil {
		t.Fatalf("audit: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(received))
	}
	if received[0]["event"] != "code.compile" {
		t.Errorf("unexpected payload: %v", received[0])
	}
}

func TestWebhookHookObserveOnlySwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	eng := newTestEngine(t)
	rt := eng.NewContext()
	defer rt.Close()

	if err := eng.AddGlobalHook(WebhookHook(srv.URL), nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := rt.Audit("test.op"); err != nil {
		t.Errorf("observe-only hook must not abort on delivery failure: %v", err)
	}
}

func TestWebhookHookEnforcingAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	eng := newTestEngine(t)
	rt := eng.NewContext()
	defer rt.Close()

	if err := eng.AddGlobalHook(WebhookHook(srv.URL, WebhookEnforcing()), nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := rt.Audit("test.op"); err == nil {
		t.Error("enforcing hook should abort when delivery fails")
	}
}
