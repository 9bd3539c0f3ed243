// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/lcmsadmin/internal/app/menutree"
	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"github.com/dalemusser/lcmsadmin/internal/app/system/apperr"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after the schema is in place and before the handler
// is built: it seeds the initial admin and, when configured, provisions
// the default role menus. Provisioning failures are logged, not fatal.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	log := deps.logger(logger)

	if err := ensureAdmin(ctx, deps.Stores.Users, appCfg, log); err != nil {
		return err
	}
	if appCfg.ProvisionOnStartup {
		provisionMenus(ctx, deps.Stores, log)
	}
	return nil
}

// ensureAdmin creates the configured admin when no user holds its
// userName. An existing user is left untouched, whatever its roles.
func ensureAdmin(ctx context.Context, users *userstore.Store, appCfg AppConfig, log *zap.Logger) error {
	name := strings.TrimSpace(appCfg.AdminUserName)
	if name == "" || appCfg.AdminPassword == "" {
		log.Info("admin seeding skipped: admin_username or admin_password not set")
		return nil
	}

	wctx, cancel := timeouts.WithTimeout(ctx, timeouts.Write(), log, "admin seed")
	defer cancel()

	in := userstore.Input{
		UserName: &name,
		Senha:    &appCfg.AdminPassword,
		Nome:     strPtr("Administrador"),
		Roles:    []string{models.RoleAdmin},
	}
	if email := strings.TrimSpace(appCfg.AdminEmail); email != "" {
		in.Email = &email
	}
	u, err := users.Create(wctx, in)
	switch {
	case errors.Is(err, apperr.ErrDuplicate):
		log.Debug("admin user already present", zap.String("user_name", name))
		return nil
	case err != nil:
		log.Error("admin seeding failed", zap.Error(err))
		return err
	}
	log.Info("admin user created", zap.Int64("id", u.ID), zap.String("user_name", u.UserName))
	return nil
}

func provisionMenus(ctx context.Context, s Stores, log *zap.Logger) {
	pctx, cancel := timeouts.WithTimeout(ctx, timeouts.Provision(), log, "startup menu provisioning")
	defer cancel()

	mp := menutree.NewMenuProvisioner(menutree.NewProvisioner(s.MenuItems, log), s.Menus, nil, log)
	rep, err := mp.ProvisionMenus(pctx, nil)
	if err != nil {
		log.Warn("startup menu provisioning finished with errors",
			zap.Int("created", len(rep.Created)), zap.Strings("failed", rep.Failed), zap.Error(err))
		return
	}
	log.Info("startup menu provisioning done",
		zap.Int("created", len(rep.Created)), zap.Strings("skipped", rep.Skipped), zap.Int("items", rep.Items))
}

func strPtr(s string) *string { return &s }
