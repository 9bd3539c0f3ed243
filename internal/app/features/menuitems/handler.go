// internal/app/features/menuitems/handler.go
package menuitems

import (
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	menuitemstore "github.com/dalemusser/lcmsadmin/internal/app/store/menuitems"
	"go.uber.org/zap"
)

// Handler serves the /menu-itens API.
type Handler struct {
	Items  *menuitemstore.Store
	Log    *zap.Logger
	Errors *uierrors.Renderer
}

// NewHandler constructs a menu items Handler.
func NewHandler(items *menuitemstore.Store, errs *uierrors.Renderer, logger *zap.Logger) *Handler {
	return &Handler{Items: items, Log: logger, Errors: errs}
}
