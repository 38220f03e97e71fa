// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// Routes mounts the account-administration endpoints, principal-only.
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser, sm.RequireSignedIn, sm.RequireRole(models.RolePrincipal))

	r.Get("/", h.HandleList)
	r.Get("/pending", h.HandleListPending)
	r.Put("/{id}/approve", h.HandleApprove)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
