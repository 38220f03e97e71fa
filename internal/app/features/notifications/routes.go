// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
)

// Routes mounts the per-user notification inbox.
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser, sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Put("/read-all", h.HandleMarkAllRead)
	r.Put("/{id}/read", h.HandleMarkRead)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
