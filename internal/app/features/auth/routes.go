// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
)

// Routes mounts the authentication endpoints.
//
//	POST /signup
//	POST /login
//	POST /logout
//	GET  /me
//	POST /reset-password
func Routes(h *Handler, sm *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/reset-password", h.HandleResetPassword)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.LoadSessionUser, sm.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
	})

	return r
}
