// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the auth routes (typically at "/auth"). Logout is mounted
// separately at "/auth/logout".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)
	r.Post("/login/conteudo", h.HandleContentLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Put("/password", h.HandleChangePassword)
	})
	return r
}
