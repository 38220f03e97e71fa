// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// Routes mounts the frequent-visitor roster endpoints, principal-only.
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser, sm.RequireSignedIn, sm.RequireRole(models.RolePrincipal))

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Get("/{id}/history", h.HandleHistory)
	r.Put("/{id}", h.HandleUpdate)

	return r
}
