// internal/app/system/logging/logging.go
//
// Package logging adds an optional rotating JSON file sink next to the
// logger waffle builds.
package logging

import (
	"errors"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig describes the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int // megabytes before rotation; 0 means 100
	MaxBackups int // rotated files kept; 0 keeps all
	MaxAgeDays int // days rotated files are kept; 0 keeps them forever
	Compress   bool
}

// WithFile returns a logger that writes to logger's core and also to a
// rotating file at path. The returned closer flushes and closes the file.
// An empty path returns logger unchanged and a no-op closer.
func WithFile(logger *zap.Logger, path string, maxSizeMB, maxBackups, maxAgeDays int) (*zap.Logger, io.Closer, error) {
	return WithFileConfig(logger, FileConfig{
		Path:       path,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   true,
	})
}

// WithFileConfig is WithFile with every rotation option exposed.
func WithFileConfig(logger *zap.Logger, cfg FileConfig) (*zap.Logger, io.Closer, error) {
	if logger == nil {
		return nil, nil, errors.New("logging: nil logger")
	}
	if cfg.Path == "" {
		return logger, nopCloser{}, nil
	}

	rot := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(rot),
		zap.LevelEnablerFunc(logger.Core().Enabled),
	)

	tee := logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
	return tee, fileCloser{logger: tee, rot: rot}, nil
}

type fileCloser struct {
	logger *zap.Logger
	rot    *lumberjack.Logger
}

func (c fileCloser) Close() error {
	_ = c.logger.Sync()
	return c.rot.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
