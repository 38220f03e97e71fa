// internal/app/features/departments/routes.go
package departments

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// Routes mounts the department endpoints. Reading is open to any signed-in
// user so guards can populate the visit form; writes are principal-only.
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser, sm.RequireSignedIn)

	r.Get("/", h.HandleList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RolePrincipal))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleRename)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
