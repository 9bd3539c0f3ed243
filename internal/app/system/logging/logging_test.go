package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/lcmsadmin/internal/app/system/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFile_EmptyPathIsNoop(t *testing.T) {
	base := zap.NewNop()
	got, closer, err := logging.WithFile(base, "", 10, 1, 1)
	if err != nil {
		t.Fatalf("WithFile failed: %v", err)
	}
	if got != base {
		t.Error("expected the same logger back")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestWithFile_NilLogger(t *testing.T) {
	if _, _, err := logging.WithFile(nil, "x.log", 1, 1, 1); err == nil {
		t.Error("expected error for nil logger")
	}
}

func TestWithFile_TeesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	core, observed := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	logger, closer, err := logging.WithFile(base, path, 1, 1, 1)
	if err != nil {
		t.Fatalf("WithFile failed: %v", err)
	}
	logger.Info("menu provisioned", zap.String("role", "admin"))
	logger.Debug("below level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if observed.Len() != 1 {
		t.Errorf("original core got %d entries, want 1", observed.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if rec["msg"] != "menu provisioned" || rec["role"] != "admin" {
		t.Errorf("record: %v", rec)
	}
}
