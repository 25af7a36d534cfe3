package pool

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrWaitTimeout is returned by WaitCompletion when the wait bound elapses
// before every submitted callable has returned.
var ErrWaitTimeout = errors.New("pool: wait timed out before all tasks completed")

// Config holds worker pool configuration.
type Config struct {
	// Workers is the number of concurrent workers
	Workers int
	// QueueSize bounds the pending queue; Submit blocks while it is full
	QueueSize int
	// WaitTimeout bounds WaitCompletion; 0 waits until all tasks finish
	WaitTimeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:     10,
		QueueSize:   64,
		WaitTimeout: 0,
	}
}

// Pool dispatches submitted callables across a fixed set of workers.
// Callables must contain their own failures; the pool does not recover
// panics and returns no per-task results.
type Pool struct {
	queue       chan func()
	pending     sync.WaitGroup
	waitTimeout time.Duration
	closeOnce   sync.Once
}

// New creates a pool and starts its workers. Invalid config values are
// clamped: Workers to at least 1, QueueSize to at least Workers.
func New(config Config) *Pool {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.QueueSize < config.Workers {
		config.QueueSize = config.Workers
	}

	p := &Pool{
		queue:       make(chan func(), config.QueueSize),
		waitTimeout: config.WaitTimeout,
	}
	for i := 0; i < config.Workers; i++ {
		go p.worker(i)
	}
	return p
}

// worker processes callables from the queue until Shutdown closes it.
func (p *Pool) worker(workerID int) {
	tasksProcessed := 0

	for task := range p.queue {
		task()
		p.pending.Done()
		tasksProcessed++
	}

	if tasksProcessed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("tasks_processed", tasksProcessed).
			Msg("Worker completed")
	}
}

// Submit enqueues a callable for execution in FIFO dispatch order. It
// blocks while the queue is full and panics after Shutdown.
func (p *Pool) Submit(task func()) {
	p.pending.Add(1)
	p.queue <- task
}

// WaitCompletion blocks until every submitted callable has returned, or
// until the configured WaitTimeout elapses for the overall wait. A timeout
// returns ErrWaitTimeout without cancelling anything: in-flight callables
// keep running and still write their results when they finish.
func (p *Pool) WaitCompletion() error {
	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(done)
	}()

	if p.waitTimeout <= 0 {
		<-done
		return nil
	}

	select {
	case <-done:
		return nil
	case <-time.After(p.waitTimeout):
		log.Warn().
			Dur("wait_timeout", p.waitTimeout).
			Msg("Pool wait timed out, in-flight tasks continue")
		return ErrWaitTimeout
	}
}

// Shutdown closes the queue so idle workers exit once the backlog drains.
// Safe to call more than once; Submit must not be called afterwards.
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() {
		close(p.queue)
	})
}
