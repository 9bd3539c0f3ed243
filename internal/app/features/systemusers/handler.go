// internal/app/features/systemusers/handler.go
package systemusers

import (
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler serves the /users admin API.
type Handler struct {
	Users  *userstore.Store
	Log    *zap.Logger
	Errors *uierrors.Renderer
}

// NewHandler constructs a users Handler.
func NewHandler(users *userstore.Store, errs *uierrors.Renderer, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger, Errors: errs}
}
