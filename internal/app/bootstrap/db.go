// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/lcmsadmin/internal/app/system/auditlog"
	"github.com/dalemusser/lcmsadmin/internal/app/system/indexes"
	"github.com/dalemusser/lcmsadmin/internal/app/system/logging"
	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ConnectDB opens the log file, connects to MongoDB and builds the stores
// and the admin log writer every later hook uses.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	log, closer, err := logging.WithFileConfig(logger, logging.FileConfig{
		Path:       appCfg.LogFile,
		MaxSizeMB:  appCfg.LogFileMaxSizeMB,
		MaxBackups: appCfg.LogFileMaxBackups,
		MaxAgeDays: appCfg.LogFileMaxAgeDays,
	})
	if err != nil {
		return DBDeps{}, fmt.Errorf("log file: %w", err)
	}

	timeouts.Configure(timeouts.Config{
		Read:      appCfg.ReadTimeout,
		Write:     appCfg.WriteTimeout,
		Provision: appCfg.ProvisionTimeout,
	})

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		_ = closer.Close()
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, timeouts.Read())
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		_ = closer.Close()
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	db := client.Database(appCfg.MongoDatabase)
	stores := newStores(db, appCfg.AuditCollection, log)
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Log:           log,
		logCloser:     closer,
		AdminLog: auditlog.NewWriter(stores.Audit, log, auditlog.Config{
			Mode:   appCfg.AuditLogAdmin,
			Buffer: appCfg.AuditBuffer,
		}),
		Stores: stores,
	}, nil
}

// EnsureSchema applies the collection validators and indexes. Both steps
// run even when the other fails; the errors are combined.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	log := deps.logger(logger)
	var err error
	if e := validators.EnsureAll(ctx, deps.MongoDatabase, log); e != nil {
		err = multierr.Append(err, fmt.Errorf("validators: %w", e))
	}
	if e := indexes.EnsureAll(ctx, deps.MongoDatabase, log); e != nil {
		err = multierr.Append(err, fmt.Errorf("indexes: %w", e))
	}
	return err
}
