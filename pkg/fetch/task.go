package fetch

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/scrapekit/htmlfetch/pkg/config"
)

// Task pairs one URL with a batch configuration and a deferred result
// slot. The slot is written at most once, by this task's own Run, and
// stays nil when the fetch failed so batch callers can detect absent
// results and retry those URLs out-of-band.
type Task struct {
	URL string

	config *config.Configuration
	result atomic.Pointer[Response]
}

// NewTask creates a task for one URL. A nil config uses config.Default().
func NewTask(url string, cfg *config.Configuration) *Task {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Task{URL: url, config: cfg}
}

// Result returns the fetched response, or nil while absent. Safe from
// any goroutine: a task orphaned by a timed-out batch wait may still
// finish and publish its result afterwards.
func (t *Task) Result() *Response {
	return t.result.Load()
}

// Run fetches the task's URL and publishes the outcome. Failures and,
// under HTTPSuccessOnly, non-2XX statuses are logged and leave the
// result absent; Run never propagates an error. Safe to invoke from any
// worker goroutine, nothing mutable is shared beyond the read-only
// configuration.
func (t *Task) Run(ctx context.Context) {
	resp, err := FetchResponse(ctx, t.URL, t.config)
	if err != nil {
		log.Error().Err(err).Str("url", t.URL).Msg("Request failed")
		return
	}

	if t.config.HTTPSuccessOnly && !resp.Success() {
		fetchFailuresTotal.WithLabelValues("status").Inc()
		log.Error().
			Int("status_code", resp.StatusCode).
			Str("url", t.URL).
			Msg("Request failed")
		return
	}

	t.result.Store(resp)
}
