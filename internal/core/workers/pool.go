package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
)

// Pool runs fire-and-forget background tasks with bounded concurrency.
// Task failures are logged and never propagate to the submitter.
type Pool struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewPool(size int64) *Pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    semaphore.NewWeighted(size),
		ctx:    ctx,
		cancel: cancel,
		log:    observability.WithComponent("workers"),
	}
}

// Submit schedules fn on the pool. Submissions after shutdown are dropped.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.Warn("task dropped, pool shut down", "task", name)
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			p.log.Warn("task abandoned during shutdown", "task", name)
			return
		}
		defer p.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				p.log.Error("task panicked", "task", name, "panic", r)
			}
		}()

		if err := fn(p.ctx); err != nil {
			p.log.Error("task failed", "task", name, "error", err)
		}
	}()
}

// Shutdown stops accepting work and waits up to timeout for in-flight tasks.
// Tasks still running after the timeout are abandoned.
func (p *Pool) Shutdown(timeout time.Duration) {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		p.log.Warn("shutdown timeout, abandoning in-flight tasks")
	}
	p.cancel()
}
