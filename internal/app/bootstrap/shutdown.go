// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Shutdown drains the admin log, then disconnects MongoDB and closes the
// log file.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	log := deps.logger(logger)
	var err error

	if deps.AdminLog != nil {
		if e := deps.AdminLog.Close(ctx); e != nil {
			log.Warn("admin log drain failed", zap.Error(e))
			err = multierr.Append(err, e)
		}
	}
	if deps.MongoClient != nil {
		log.Info("disconnecting MongoDB client")
		if e := deps.MongoClient.Disconnect(ctx); e != nil {
			log.Error("MongoDB disconnect failed", zap.Error(e))
			err = multierr.Append(err, e)
		}
	}
	if deps.logCloser != nil {
		_ = log.Sync()
		err = multierr.Append(err, deps.logCloser.Close())
	}
	return err
}
