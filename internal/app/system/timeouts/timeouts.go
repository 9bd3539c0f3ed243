// internal/app/system/timeouts/timeouts.go
//
// Package timeouts holds the deadlines handlers put on database work.
// Values can be overridden once at startup with Configure.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure is called.
const (
	DefaultPing      = 2 * time.Second
	DefaultRead      = 5 * time.Second
	DefaultWrite     = 10 * time.Second
	DefaultProvision = 60 * time.Second
)

var (
	mu        sync.RWMutex
	ping      = DefaultPing
	read      = DefaultRead
	write     = DefaultWrite
	provision = DefaultProvision
)

// Ping bounds health checks.
func Ping() time.Duration { return get(&ping) }

// Read bounds single lookups and paged lists.
func Read() time.Duration { return get(&read) }

// Write bounds creates and updates, including their audit mirror writes.
func Write() time.Duration { return get(&write) }

// Provision bounds a full menu provisioning run.
func Provision() time.Duration { return get(&provision) }

func get(d *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *d
}

// Config overrides the defaults. Zero fields are ignored.
type Config struct {
	Ping      time.Duration
	Read      time.Duration
	Write     time.Duration
	Provision time.Duration
}

// Configure applies the non-zero values of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range []struct {
		dst *time.Duration
		v   time.Duration
	}{{&ping, cfg.Ping}, {&read, cfg.Read}, {&write, cfg.Write}, {&provision, cfg.Provision}} {
		if p.v > 0 {
			*p.dst = p.v
		}
	}
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, read, write, provision = DefaultPing, DefaultRead, DefaultWrite, DefaultProvision
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was what ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
