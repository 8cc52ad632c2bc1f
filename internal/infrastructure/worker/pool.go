// Package worker provides a bounded, caller-owned worker pool for running
// independent module computations concurrently.
package worker

import (
	"fmt"
	"sync"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// Pool executes submitted tasks with a fixed parallelism level, fork-join
// style. The pool is explicitly constructed and torn down by its owner; it
// holds no global state.
//
// Tasks must be independent: the pool gives no ordering guarantee. The first
// task error is retained and reported by Wait; later errors are dropped.
type Pool struct {
	config domainART.WorkerConfig
	tokens chan struct{}
	wg     sync.WaitGroup

	mu       sync.Mutex
	firstErr error
	closed   bool

	submitted int64
	completed int64
	failed    int64
}

// Stats reports pool activity counters.
type Stats struct {
	Size      int   `json:"size"`
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// New validates the configuration and constructs a pool.
func New(config domainART.WorkerConfig) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Pool{
		config: config,
		tokens: make(chan struct{}, config.Size),
	}, nil
}

// Size returns the fixed parallelism level.
func (p *Pool) Size() int { return p.config.Size }

// Submit schedules a task. It blocks while all workers are busy, bounding
// in-flight work to the pool size.
func (p *Pool) Submit(task func() error) error {
	if task == nil {
		return fmt.Errorf("%w: nil task", domainART.ErrInvalidArgument)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("%w: submit", domainART.ErrPoolClosed)
	}
	p.submitted++
	p.wg.Add(1)
	p.mu.Unlock()

	p.tokens <- struct{}{}
	go func() {
		defer func() {
			<-p.tokens
			p.wg.Done()
		}()
		err := task()

		p.mu.Lock()
		if err != nil {
			p.failed++
			if p.firstErr == nil {
				p.firstErr = err
			}
		} else {
			p.completed++
		}
		p.mu.Unlock()
	}()
	return nil
}

// Wait blocks until all submitted tasks finish and returns the first task
// error, if any. The error is cleared so the pool can be reused for the next
// fork-join phase.
func (p *Pool) Wait() error {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.firstErr
	p.firstErr = nil
	return err
}

// Stats returns a copy of the activity counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Size:      p.config.Size,
		Submitted: p.submitted,
		Completed: p.completed,
		Failed:    p.failed,
	}
}

// Close waits for in-flight tasks and rejects further submissions.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}
