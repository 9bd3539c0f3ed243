// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	"github.com/dalemusser/lcmsadmin/internal/app/store/audit"
	"go.uber.org/zap"
)

type Handler struct {
	Store  *audit.Store
	Log    *zap.Logger
	Errors *uierrors.Renderer
}

// NewHandler constructs an admin log feature handler bound to the given
// store and logger.
func NewHandler(store *audit.Store, errs *uierrors.Renderer, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Log:    logger,
		Errors: errs,
	}
}
