package visitors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
)

func TestRoutes_RejectUnauthenticated(t *testing.T) {
	sm, err := sysauth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	router := Routes(&Handler{Log: zap.NewNop()}, sm)

	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/"},
		{http.MethodGet, "/"},
		{http.MethodGet, "/64f000000000000000000001"},
		{http.MethodPut, "/64f000000000000000000001/checkout"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success || body.Message != "Not authorized, no token" {
				t.Errorf("unexpected body: %+v", body)
			}
		})
	}
}
