// internal/app/features/login/handler.go
package login

import (
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	menustore "github.com/dalemusser/lcmsadmin/internal/app/store/menus"
	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler serves the /auth endpoints other than logout.
type Handler struct {
	Users   *userstore.Store
	Menus   *menustore.Store
	Auth    *auth.Manager
	Limiter *ratelimit.LoginLimiter // nil disables throttling
	Log     *zap.Logger
	Errors  *uierrors.Renderer
}

// NewHandler constructs a login Handler.
func NewHandler(users *userstore.Store, menus *menustore.Store, authMgr *auth.Manager, limiter *ratelimit.LoginLimiter, errs *uierrors.Renderer, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   users,
		Menus:   menus,
		Auth:    authMgr,
		Limiter: limiter,
		Log:     logger,
		Errors:  errs,
	}
}
