// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"go.uber.org/zap"
)

// Modes accepted by Config.Mode.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// DefaultBuffer is the queue size used when Config.Buffer is not positive.
const DefaultBuffer = 256

// ErrClosed is returned by Close when called twice.
var ErrClosed = errors.New("auditlog: writer already closed")

// Config holds admin action logging configuration.
type Config struct {
	// Mode selects where entries go: "all", "db", "log" or "off".
	// Unknown values behave like "all".
	Mode string
	// Buffer is the number of entries queued before new ones are dropped.
	Buffer int
}

// Sink persists one admin log entry. *audit.Store implements it.
type Sink interface {
	Log(ctx context.Context, entry models.AdminLog) (models.AdminLog, error)
}

// Writer hands admin log entries to a background goroutine so request
// handling never waits on, or fails because of, the log write.
type Writer struct {
	sink Sink
	log  *zap.Logger
	mode string

	mu     sync.RWMutex
	closed bool
	queue  chan models.AdminLog
	done   chan struct{}
}

// NewWriter starts the worker goroutine. Call Close on shutdown to drain it.
func NewWriter(sink Sink, logger *zap.Logger, cfg Config) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := cfg.Mode
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
	case "":
		mode = ModeAll
	default:
		logger.Warn("unknown audit mode, using all", zap.String("mode", mode))
		mode = ModeAll
	}
	size := cfg.Buffer
	if size <= 0 {
		size = DefaultBuffer
	}

	w := &Writer{
		sink:  sink,
		log:   logger,
		mode:  mode,
		queue: make(chan models.AdminLog, size),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Enabled reports whether entries are recorded at all.
func (w *Writer) Enabled() bool { return w != nil && w.mode != ModeOff }

// Mode returns the effective mode.
func (w *Writer) Mode() string { return w.mode }

// Record queues entry. It never blocks: when the queue is full or the
// writer is closed the entry is dropped with a warning.
func (w *Writer) Record(entry models.AdminLog) {
	if !w.Enabled() {
		return
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.log.Warn("admin log dropped after close", entryFields(entry)...)
		return
	}
	select {
	case w.queue <- entry:
	default:
		w.log.Warn("admin log queue full, entry dropped", entryFields(entry)...)
	}
}

// Close stops accepting entries and waits for queued ones to be written
// or for ctx to end, whichever comes first.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.log.Warn("admin log drain interrupted", zap.Int("pending", len(w.queue)))
		return ctx.Err()
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for entry := range w.queue {
		w.write(entry)
	}
}

func (w *Writer) write(entry models.AdminLog) {
	if w.mode == ModeAll || w.mode == ModeLog {
		w.log.Info("admin action", entryFields(entry)...)
	}
	if w.mode != ModeAll && w.mode != ModeDB {
		return
	}
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Write(), w.log, "admin_log insert")
	defer cancel()
	if _, err := w.sink.Log(ctx, entry); err != nil {
		w.log.Error("admin log write failed", append(entryFields(entry), zap.Error(err))...)
	}
}

func entryFields(e models.AdminLog) []zap.Field {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", e.Action),
		zap.String("entity", e.Entity),
		zap.String("method", e.Method),
		zap.String("endpoint", e.Endpoint),
		zap.Int("status", e.StatusCode),
		zap.Int64("admin_id", e.AdminID),
		zap.String("admin", e.AdminUserName),
		zap.String("ip", e.IP),
		zap.Int64("duration_ms", e.DurationMs),
	}
	if e.EntityID != "" {
		fields = append(fields, zap.String("entity_id", e.EntityID))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}
	return fields
}
