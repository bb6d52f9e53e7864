package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type refresherStub struct {
	calls   atomic.Int32
	err     error
	blockOn chan struct{}
}

func (r *refresherStub) RefreshFeed(ctx context.Context) error {
	r.calls.Add(1)
	if r.blockOn != nil {
		select {
		case <-r.blockOn:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorker_RefreshesImmediatelyAndOnTick(t *testing.T) {
	refresher := &refresherStub{}
	w := New(refresher, 20*time.Millisecond, time.Second, discardLogger())

	w.Start()
	defer w.Stop()

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestWorker_KeepsRunningAfterError(t *testing.T) {
	refresher := &refresherStub{err: errors.New("remote down")}
	w := New(refresher, 10*time.Millisecond, time.Second, discardLogger())

	w.Start()
	defer w.Stop()

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestWorker_StopCancelsRunningRefresh(t *testing.T) {
	refresher := &refresherStub{blockOn: make(chan struct{})}
	w := New(refresher, time.Hour, time.Hour, discardLogger())

	w.Start()
	assert.Eventually(t, func() bool { return refresher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestWorker_StopWithoutStart(t *testing.T) {
	w := New(&refresherStub{}, time.Second, time.Second, discardLogger())

	assert.NotPanics(t, w.Stop)
	assert.Equal(t, time.Second, w.GetInterval())
}
