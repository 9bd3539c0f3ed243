// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/lcmsadmin/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/lcmsadmin/internal/app/features/errors"
	healthfeature "github.com/dalemusser/lcmsadmin/internal/app/features/health"
	loginfeature "github.com/dalemusser/lcmsadmin/internal/app/features/login"
	logoutfeature "github.com/dalemusser/lcmsadmin/internal/app/features/logout"
	menuitemsfeature "github.com/dalemusser/lcmsadmin/internal/app/features/menuitems"
	menusfeature "github.com/dalemusser/lcmsadmin/internal/app/features/menus"
	settingsfeature "github.com/dalemusser/lcmsadmin/internal/app/features/settings"
	systemusersfeature "github.com/dalemusser/lcmsadmin/internal/app/features/systemusers"
	"github.com/dalemusser/lcmsadmin/internal/app/menutree"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auditlog"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auth"
	"github.com/dalemusser/lcmsadmin/internal/app/system/limits"
	"github.com/dalemusser/lcmsadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/lcmsadmin/internal/app/system/reqid"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Middleware order matters: the request id comes first so every later
// log line carries it, the user is loaded before the admin log middleware
// so actions can be attributed, and the admin log wraps the feature
// routers so it sees their final status.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	log := deps.logger(logger)
	dev := coreCfg != nil && coreCfg.Env == "dev"
	secure := coreCfg != nil && coreCfg.Env == "prod"

	authMgr, err := auth.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry, appCfg.CookieDomain, secure, log)
	if err != nil {
		log.Error("auth manager init failed", zap.Error(err))
		return nil, err
	}
	errs := uierrors.NewRenderer(log, dev)
	s := deps.Stores

	r := chi.NewRouter()
	r.Use(reqid.Middleware)
	r.Use(errs.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", reqid.Header},
		ExposedHeaders:   []string{reqid.Header},
		AllowCredentials: true,
		MaxAge:           int((5 * time.Minute).Seconds()),
	}))
	r.Use(limits.Body(limits.MaxJSONBody))
	r.Use(authMgr.LoadUser(s.Users))
	r.Use(auditlog.Middleware(deps.AdminLog))

	r.NotFound(errs.NotFound)
	r.MethodNotAllowed(errs.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, log)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	limiter := ratelimit.NewLoginLimiter(ratelimit.LoginConfig{
		PerIP:    appCfg.LoginLimitPerIP,
		PerLogin: appCfg.LoginLimitPerLogin,
	})
	loginHandler := loginfeature.NewHandler(s.Users, s.Menus, authMgr, limiter, errs, log)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(authMgr, log)
	r.Mount("/auth/logout", logoutfeature.Routes(logoutHandler))

	// Menus and their items
	prov := menutree.NewMenuProvisioner(menutree.NewProvisioner(s.MenuItems, log), s.Menus, nil, log)
	menusHandler := menusfeature.NewHandler(s.Menus, prov, errs, log)
	r.Mount("/menus", menusfeature.Routes(menusHandler))

	itemsHandler := menuitemsfeature.NewHandler(s.MenuItems, errs, log)
	r.Mount("/menu-itens", menuitemsfeature.Routes(itemsHandler))

	// Administration
	usersHandler := systemusersfeature.NewHandler(s.Users, errs, log)
	r.Mount("/users", systemusersfeature.Routes(usersHandler))

	settingsHandler := settingsfeature.NewHandler(s.Configs, errs, log)
	r.Mount("/configs", settingsfeature.Routes(settingsHandler))

	auditHandler := auditlogfeature.NewHandler(s.Audit, errs, log)
	r.Mount("/admin-logs", auditlogfeature.Routes(auditHandler))

	return r, nil
}
