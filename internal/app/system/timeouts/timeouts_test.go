package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Read: 7 * time.Second})
	if got := timeouts.Read(); got != 7*time.Second {
		t.Errorf("Read: got %v", got)
	}
	if got := timeouts.Write(); got != timeouts.DefaultWrite {
		t.Errorf("Write changed: got %v", got)
	}

	timeouts.Reset()
	if got := timeouts.Read(); got != timeouts.DefaultRead {
		t.Errorf("after Reset: got %v", got)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("got %v", ctx.Err())
	}
}
