// internal/app/features/settings/handler.go
package settings

import (
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	settingsstore "github.com/dalemusser/lcmsadmin/internal/app/store/settings"
	"go.uber.org/zap"
)

// Handler owns the /configs handlers.
type Handler struct {
	Configs *settingsstore.Store
	Log     *zap.Logger
	Errors  *uierrors.Renderer
}

// NewHandler constructs a Handler bound to the config store.
func NewHandler(configs *settingsstore.Store, errs *uierrors.Renderer, logger *zap.Logger) *Handler {
	return &Handler{Configs: configs, Log: logger, Errors: errs}
}
