package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/gatehouse/internal/app/system/auth"
	"go.uber.org/zap"
)

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	m, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return m
}

func TestNewSessionManager_RejectsEmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestEstablish_RoundTrip(t *testing.T) {
	m := newManager(t)

	// Log in: establish writes the cookie.
	loginRec := httptest.NewRecorder()
	loginReq := httptest.NewRequest("POST", "/login", nil)
	err := m.Establish(loginRec, loginReq, &auth.SessionUser{
		ID: "abc123", Username: "guard1", FullName: "Guard One", Role: "guard",
	})
	if err != nil {
		t.Fatalf("Establish failed: %v", err)
	}
	cookies := loginRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Replay the cookie: LoadSessionUser puts the user in context.
	var got *auth.SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	m.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a session user in context")
	}
	if got.ID != "abc123" || got.Role != "guard" {
		t.Errorf("unexpected session user %+v", got)
	}
}

func TestRequireSignedIn(t *testing.T) {
	m := newManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Without a user in context: 401.
	rec := httptest.NewRecorder()
	m.RequireSignedIn(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	// With a user: pass through.
	rec = httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "x", Role: "guard"})
	m.RequireSignedIn(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected pass-through, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	m := newManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	gate := m.RequireRole("principal")

	// Guard hitting a principal-only route: 403.
	rec := httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "x", Role: "guard"})
	gate(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}

	// No session at all: 401, not 403.
	rec = httptest.NewRecorder()
	gate(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	// Matching role, case-insensitively.
	rec = httptest.NewRecorder()
	req = auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "x", Role: "Principal"})
	gate(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected pass-through, got %d", rec.Code)
	}
}
