package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewPool(2)
	var ran atomic.Int32

	for i := 0; i < 5; i++ {
		pool.Submit("count", func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	pool.Shutdown(2 * time.Second)

	assert.Equal(t, int32(5), ran.Load())
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var mu sync.Mutex
	inFlight, peak := 0, 0

	for i := 0; i < 8; i++ {
		pool.Submit("probe", func(context.Context) error {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		})
	}
	pool.Shutdown(5 * time.Second)

	assert.LessOrEqual(t, peak, 2)
	assert.Equal(t, 0, inFlight)
}

func TestPoolContainsErrorsAndPanics(t *testing.T) {
	pool := NewPool(1)
	var after atomic.Bool

	pool.Submit("fails", func(context.Context) error {
		return errors.New("boom")
	})
	pool.Submit("panics", func(context.Context) error {
		panic("boom")
	})
	pool.Submit("survives", func(context.Context) error {
		after.Store(true)
		return nil
	})
	pool.Shutdown(2 * time.Second)

	assert.True(t, after.Load(), "pool keeps running after a failed and a panicked task")
}

func TestPoolDropsSubmissionsAfterShutdown(t *testing.T) {
	pool := NewPool(1)
	pool.Shutdown(time.Second)

	var ran atomic.Bool
	pool.Submit("late", func(context.Context) error {
		ran.Store(true)
		return nil
	})

	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestPoolShutdownCancelsTaskContext(t *testing.T) {
	pool := NewPool(1)
	cancelled := make(chan struct{})

	pool.Submit("long", func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	})

	// The task outlives the drain window; Shutdown must cancel its context.
	pool.Shutdown(50 * time.Millisecond)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		require.Fail(t, "task context was never cancelled")
	}
}
