package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := sysauth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	// Users is left nil: these tests cover the validation paths that never
	// reach the store.
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return body
}

func TestValidPIN(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"004521", true},
		{"123", false},
		{"", false},
		{"12a4", false},
		{"12 34", false},
	}
	for _, tc := range tests {
		if got := validPIN(tc.pin); got != tc.want {
			t.Errorf("validPIN(%q) = %v, want %v", tc.pin, got, tc.want)
		}
	}
}

func TestHandleSignup_Validation(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing fields", `{"username":"abc"}`},
		{"short username", `{"username":"ab","password":"secret123","pin":"1234","fullName":"A B","role":"guard"}`},
		{"short password", `{"username":"abcd","password":"123","pin":"1234","fullName":"A B","role":"guard"}`},
		{"non-digit pin", `{"username":"abcd","password":"secret123","pin":"12ab","fullName":"A B","role":"guard"}`},
		{"unknown role", `{"username":"abcd","password":"secret123","pin":"1234","fullName":"A B","role":"janitor"}`},
		{"bad department id", `{"username":"abcd","password":"secret123","pin":"1234","fullName":"A B","role":"guard","departmentId":"zzz"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler.HandleSignup(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if decodeEnvelope(t, rec)["success"] != false {
				t.Error("expected success false")
			}
		})
	}
}

func TestHandleLogin_Validation(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"abc"}`))
	rec := httptest.NewRecorder()

	handler.HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleResetPassword_Validation(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/reset-password",
		strings.NewReader(`{"username":"abc","pin":"1234","newPassword":"short"}`))
	rec := httptest.NewRecorder()

	handler.HandleResetPassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleLogout_ClearsSessionCookie(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	handler.HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
			}
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

func TestHandleMe_RequiresSession(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.HandleMe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
