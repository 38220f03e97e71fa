package timeouts_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

func TestConfigureAndReset(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: time.Second, Long: 2 * time.Minute})
	if got := timeouts.Short(); got != time.Second {
		t.Errorf("Short() = %v after Configure, want 1s", got)
	}
	if got := timeouts.Long(); got != 2*time.Minute {
		t.Errorf("Long() = %v after Configure, want 2m", got)
	}
	// Zero values leave existing settings alone.
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium() = %v, want untouched default %v", got, timeouts.DefaultMedium)
	}

	timeouts.Reset()
	if got := timeouts.Short(); got != timeouts.DefaultShort {
		t.Errorf("Short() = %v after Reset, want %v", got, timeouts.DefaultShort)
	}
	if got := timeouts.Long(); got != timeouts.DefaultLong {
		t.Errorf("Long() = %v after Reset, want %v", got, timeouts.DefaultLong)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test operation")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}
