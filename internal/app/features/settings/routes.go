// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the config routes (typically at "/configs"). Every route
// requires an admin. Static paths are matched before /{id}.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequireAdmin)
	h.MountRoutes(r)
	return r
}

// MountRoutes registers the config handlers on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/menu/colors", h.ServeMenuColors)
	r.Post("/menu/colors", h.HandleSaveMenuColors)
	r.Get("/roles", h.ServeRoles)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}
