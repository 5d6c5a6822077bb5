package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	m, err := NewSessionManager("0123456789abcdef0123456789abcdef", "colloquy-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return m
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", "colloquy-session", "", true, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key in secure mode")
	}
	if _, err := NewSessionManager("", "colloquy-session", "", false, zap.NewNop()); err != nil {
		t.Fatalf("dev mode should fall back to a random key, got %v", err)
	}
}

func TestLoadCaller_AnonymousGetsVisitorID(t *testing.T) {
	m := newTestManager(t)

	var got *Caller
	h := m.LoadCaller(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentCaller(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

	if got == nil {
		t.Fatal("no caller in context")
	}
	if got.Authenticated() {
		t.Error("anonymous caller reported as authenticated")
	}
	if got.VisitorID == "" {
		t.Error("anonymous caller has no visitor id")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("visitor cookie was not written")
	}
}

func TestLoadCaller_KeepsVisitorIDAcrossRequests(t *testing.T) {
	m := newTestManager(t)

	var seen []string
	h := m.LoadCaller(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := CurrentCaller(r)
		seen = append(seen, c.VisitorID)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		second.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), second)

	if len(seen) != 2 {
		t.Fatalf("handler ran %d times, want 2", len(seen))
	}
	if seen[0] != seen[1] {
		t.Errorf("visitor id changed between requests: %q vs %q", seen[0], seen[1])
	}
}

func TestCurrentCaller_Injected(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = WithTestCaller(r, &Caller{UserID: "abc", Name: "Ada Lovelace"})

	c, ok := CurrentCaller(r)
	if !ok {
		t.Fatal("caller not found in context")
	}
	if !c.Authenticated() {
		t.Error("caller with user id should be authenticated")
	}
}
