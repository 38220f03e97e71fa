// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// Routes mounts the ledger export endpoints, principal-only. POST because the
// filter rides in the body.
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser, sm.RequireSignedIn, sm.RequireRole(models.RolePrincipal))

	r.Post("/pdf", h.HandlePDF)
	r.Post("/csv", h.HandleCSV)

	return r
}
