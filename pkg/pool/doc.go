// Package pool implements a fixed-size worker pool for fetch tasks.
//
// Workers pull submitted callables from a shared bounded queue in FIFO
// dispatch order. The pool itself returns no results; submitted callables
// communicate out-of-band (fetch tasks write into their own result slot).
//
// Example usage:
//
//	p := pool.New(pool.DefaultConfig())
//	for _, task := range tasks {
//		p.Submit(task.Run)
//	}
//	err := p.WaitCompletion()
//	p.Shutdown()
//
// WaitCompletion returns ErrWaitTimeout when the configured bound elapses
// first. A timed-out wait cancels nothing: in-flight callables run to
// completion on their own workers. Callers that create pools per batch
// should always Shutdown afterwards so idle workers exit.
package pool
