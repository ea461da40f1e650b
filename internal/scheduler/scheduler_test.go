package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan struct{})

	go func() {
		defer close(done)
		Every(ctx, time.Millisecond, "count", func(context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
			}
			return errors.New("keeps going")
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Every did not return after cancel")
	}
	if n := runs.Load(); n < 3 {
		t.Errorf("runs = %d, want at least 3", n)
	}
}
