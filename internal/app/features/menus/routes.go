// internal/app/features/menus/routes.go
package menus

import (
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the menu routes (typically at "/menus"). Lookup by perfil
// is public; everything else is admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/perfil/{perfil}", h.ServeByPerfil)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(authz.RequireAdmin)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Post("/provision", h.HandleProvision)
		pr.Get("/role/{role}", h.ServeByRole)
		pr.Get("/{id}", h.ServeGet)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
