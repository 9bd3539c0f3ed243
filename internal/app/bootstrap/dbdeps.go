// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"io"

	"github.com/dalemusser/lcmsadmin/internal/app/store/audit"
	"github.com/dalemusser/lcmsadmin/internal/app/store/gateway"
	menuitemstore "github.com/dalemusser/lcmsadmin/internal/app/store/menuitems"
	menustore "github.com/dalemusser/lcmsadmin/internal/app/store/menus"
	"github.com/dalemusser/lcmsadmin/internal/app/store/seqid"
	settingsstore "github.com/dalemusser/lcmsadmin/internal/app/store/settings"
	userstore "github.com/dalemusser/lcmsadmin/internal/app/store/users"
	"github.com/dalemusser/lcmsadmin/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DBDeps holds the backends built by ConnectDB and shared by the later
// hooks.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Log is WAFFLE's logger, teed into the log file when one is set.
	Log       *zap.Logger
	logCloser io.Closer

	// AdminLog queues admin action entries; Shutdown drains it.
	AdminLog *auditlog.Writer

	Stores Stores
}

// Stores bundles the collection stores over one gateway.
type Stores struct {
	Gateway   *gateway.Gateway
	IDs       *seqid.Allocator
	Users     *userstore.Store
	Menus     *menustore.Store
	MenuItems *menuitemstore.Store
	Configs   *settingsstore.Store
	Audit     *audit.Store
}

func newStores(db *mongo.Database, auditCollection string, logger *zap.Logger) Stores {
	g := gateway.New(db, auditCollection, logger)
	ids := seqid.New(g, logger)
	return Stores{
		Gateway:   g,
		IDs:       ids,
		Users:     userstore.New(g, ids),
		Menus:     menustore.New(g, ids),
		MenuItems: menuitemstore.New(g, ids),
		Configs:   settingsstore.New(g, ids),
		Audit:     audit.New(g, ids, logger),
	}
}

// logger returns deps.Log, or fallback before ConnectDB has run.
func (d DBDeps) logger(fallback *zap.Logger) *zap.Logger {
	if d.Log != nil {
		return d.Log
	}
	return fallback
}
