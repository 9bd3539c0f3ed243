// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds lcmsadmin's own configuration.
//
// WAFFLE's CoreConfig covers the framework side (ports, TLS, log level,
// env). Everything below is specific to this service and is loaded by
// LoadConfig from LCMSADMIN_* variables, config files or flags.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// JWT and the token cookie
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieDomain string

	// Audit mirror collection and the admin action log
	AuditCollection string
	AuditLogAdmin   string // all, db, log or off
	AuditBuffer     int

	// Menus are provisioned for the default roles at startup when set.
	ProvisionOnStartup bool

	// Initial admin account, created when no user holds AdminUserName.
	AdminUserName string
	AdminEmail    string
	AdminPassword string

	CORSAllowedOrigins []string

	// Login throttling; zero disables a check.
	LoginLimitPerIP    int
	LoginLimitPerLogin int

	// Store operation timeouts; zero keeps the defaults.
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ProvisionTimeout time.Duration

	// Optional rotating log file, in addition to WAFFLE's console output.
	LogFile           string
	LogFileMaxSizeMB  int
	LogFileMaxBackups int
	LogFileMaxAgeDays int
}
