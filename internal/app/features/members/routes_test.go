package members

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

func TestRoutes_PrincipalOnly(t *testing.T) {
	sm, err := sysauth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	router := Routes(&Handler{Log: zap.NewNop()}, sm)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/64f000000000000000000001"},
		{http.MethodGet, "/64f000000000000000000001/history"},
		{http.MethodPut, "/64f000000000000000000001"},
	}

	for _, tc := range paths {
		t.Run("guard "+tc.method+" "+tc.path, func(t *testing.T) {
			req := sysauth.WithTestUser(httptest.NewRequest(tc.method, tc.path, nil),
				&sysauth.SessionUser{ID: "64f000000000000000000009", Role: models.RoleGuard})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusForbidden)
			}
		})
	}

	t.Run("no session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}
