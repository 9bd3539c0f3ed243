// internal/app/features/menuitems/routes.go
package menuitems

import (
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the menu item routes (typically at "/menu-itens"). Admins only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequireAdmin)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Patch("/{id}/soft-delete", h.HandleSoftDelete)
	return r
}
