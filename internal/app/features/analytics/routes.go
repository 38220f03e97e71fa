// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/domain/models"
)

// Routes mounts the analytics endpoints, principal-only.
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser, sm.RequireSignedIn, sm.RequireRole(models.RolePrincipal))

	r.Get("/dashboard", h.HandleDashboard)
	r.Get("/weekly", h.HandleWeekly)
	r.Get("/monthly", h.HandleMonthly)
	r.Get("/departments", h.HandleDepartments)
	r.Get("/members", h.HandleMembers)

	return r
}
