// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is the default secret. It is rejected in prod.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// minJWTSecret is the shortest secret accepted in prod.
const minJWTSecret = 32

// appConfigKeys defines the configuration keys for lcmsadmin.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: LCMSADMIN_MONGO_URI, LCMSADMIN_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lcms", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 signing secret (32+ chars in prod)"},
	{Name: "jwt_expiry", Default: "168h", Desc: "Token lifetime (e.g., 168h, 30m)"},
	{Name: "cookie_domain", Default: "", Desc: "Token cookie domain (blank means current host)"},

	{Name: "audit_collection", Default: gateway.DefaultAuditCollection, Desc: "Collection receiving audited writes"},
	{Name: "audit_log_admin", Default: auditlog.ModeAll, Desc: "Admin action logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_buffer", Default: auditlog.DefaultBuffer, Desc: "Admin log entries queued before new ones are dropped"},

	{Name: "provision_on_startup", Default: false, Desc: "Provision the default role menus at startup"},

	{Name: "admin_username", Default: "admin", Desc: "Initial admin userName"},
	{Name: "admin_email", Default: "", Desc: "Initial admin email"},
	{Name: "admin_password", Default: "", Desc: "Initial admin password (blank skips seeding)"},

	{Name: "cors_allowed_origins", Default: "http://localhost:3000,http://localhost:5173", Desc: "Comma-separated CORS origins"},

	{Name: "login_limit_per_ip", Default: 10, Desc: "Login attempts per IP per minute (0 disables)"},
	{Name: "login_limit_per_login", Default: 5, Desc: "Login attempts per userName per 5 minutes (0 disables)"},

	{Name: "db_read_timeout", Default: "10s", Desc: "Timeout of store reads"},
	{Name: "db_write_timeout", Default: "10s", Desc: "Timeout of store writes"},
	{Name: "provision_timeout", Default: "60s", Desc: "Timeout of a menu provisioning run"},

	{Name: "log_file", Default: "", Desc: "Rotating JSON log file (blank disables)"},
	{Name: "log_file_max_size_mb", Default: 100, Desc: "Log file size before rotation"},
	{Name: "log_file_max_backups", Default: 5, Desc: "Rotated log files kept"},
	{Name: "log_file_max_age_days", Default: 30, Desc: "Days rotated log files are kept"},
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, LCMSADMIN_* for app) and
// flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LCMSADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		JWTExpiry:    appValues.Duration("jwt_expiry", 7*24*time.Hour),
		CookieDomain: appValues.String("cookie_domain"),

		AuditCollection: appValues.String("audit_collection"),
		AuditLogAdmin:   appValues.String("audit_log_admin"),
		AuditBuffer:     appValues.Int("audit_buffer"),

		ProvisionOnStartup: appValues.Bool("provision_on_startup"),

		AdminUserName: appValues.String("admin_username"),
		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		LoginLimitPerIP:    appValues.Int("login_limit_per_ip"),
		LoginLimitPerLogin: appValues.Int("login_limit_per_login"),

		ReadTimeout:      appValues.Duration("db_read_timeout", 10*time.Second),
		WriteTimeout:     appValues.Duration("db_write_timeout", 10*time.Second),
		ProvisionTimeout: appValues.Duration("provision_timeout", time.Minute),

		LogFile:           appValues.String("log_file"),
		LogFileMaxSizeMB:  appValues.Int("log_file_max_size_mb"),
		LogFileMaxBackups: appValues.Int("log_file_max_backups"),
		LogFileMaxAgeDays: appValues.Int("log_file_max_age_days"),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backend is contacted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if appCfg.JWTExpiry <= 0 {
		return fmt.Errorf("jwt_expiry must be positive")
	}
	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret || len(appCfg.JWTSecret) < minJWTSecret {
			return fmt.Errorf("jwt_secret must be set to at least %d characters in prod", minJWTSecret)
		}
	}
	switch appCfg.AuditLogAdmin {
	case "", auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log_admin must be all, db, log or off (got %q)", appCfg.AuditLogAdmin)
	}
	return nil
}
