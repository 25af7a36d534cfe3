package fetch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scrapekit/htmlfetch/pkg/config"
	"github.com/scrapekit/htmlfetch/pkg/pool"
)

// FetchAll fetches every URL concurrently and returns one task per URL,
// positionally identical to the input order regardless of completion
// order. Tasks whose fetch failed carry a nil Result.
//
// The worker pool is sized from cfg.NumberThreads and the overall wait
// is bounded by cfg.ThreadTimeout. A timed-out wait returns the tasks
// as they stand; orphaned fetches keep running and publish their
// results whenever they finish.
func FetchAll(ctx context.Context, urls []string, cfg *config.Configuration) []*Task {
	if cfg == nil {
		cfg = config.Default()
	}

	tasks := make([]*Task, 0, len(urls))
	if len(urls) == 0 {
		return tasks
	}

	start := time.Now()
	fetchBatchesTotal.Inc()
	fetchBatchSize.Observe(float64(len(urls)))

	p := pool.New(pool.Config{
		Workers:     cfg.NumberThreads,
		QueueSize:   len(urls),
		WaitTimeout: cfg.ThreadTimeout,
	})

	for _, u := range urls {
		task := NewTask(u, cfg)
		tasks = append(tasks, task)
		p.Submit(func() { task.Run(ctx) })
	}

	if err := p.WaitCompletion(); err != nil {
		log.Warn().
			Err(err).
			Int("urls", len(urls)).
			Msg("Batch wait timed out, unfinished fetches continue in background")
	}
	p.Shutdown()

	fetched := 0
	for _, task := range tasks {
		if task.Result() != nil {
			fetched++
		}
	}
	log.Info().
		Int("urls", len(urls)).
		Int("fetched", fetched).
		Dur("duration", time.Since(start)).
		Msg("Batch fetch complete")

	return tasks
}
