// internal/app/features/menus/handler.go
package menus

import (
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	"github.com/dalemusser/lcmsadmin/internal/app/menutree"
	menustore "github.com/dalemusser/lcmsadmin/internal/app/store/menus"
	"go.uber.org/zap"
)

// Handler serves the /menus API.
type Handler struct {
	Menus       *menustore.Store
	Provisioner *menutree.MenuProvisioner
	Log         *zap.Logger
	Errors      *uierrors.Renderer
}

// NewHandler constructs a menus Handler. prov runs POST /menus/provision.
func NewHandler(menus *menustore.Store, prov *menutree.MenuProvisioner, errs *uierrors.Renderer, logger *zap.Logger) *Handler {
	return &Handler{Menus: menus, Provisioner: prov, Log: logger, Errors: errs}
}
