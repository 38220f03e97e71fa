// internal/app/features/visitors/routes.go
package visitors

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
)

// Routes mounts the visitor-ledger endpoints. Every route needs a session;
// HandleList scopes guards to their own entries itself.
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser, sm.RequireSignedIn)

	r.Post("/", h.HandleLog)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}/checkout", h.HandleCheckout)

	return r
}
