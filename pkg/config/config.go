// Package config holds the per-fetch configuration bag consumed by the
// single-fetch executor and the batch orchestrator.
package config

import (
	"time"

	"github.com/scrapekit/htmlfetch/pkg/cache"
	"github.com/scrapekit/htmlfetch/pkg/cookies"
)

// Configuration carries every per-fetch parameter. One value is shared by
// all tasks of a batch and must not be mutated once a fetch starts.
//
// Entry points accepting *Configuration treat nil as Default().
type Configuration struct {
	// Transport
	RequestTimeout   time.Duration     // Covers the full exchange including redirects
	BrowserUserAgent string            // Sent as User-Agent when Headers is empty
	Proxies          map[string]string // Keys "http", "https", "no_proxy"; empty = direct

	// Request assembly
	Headers     map[string]string // Replaces the default User-Agent header entirely when non-empty
	Cookies     []cookies.Record  // Fallback cookie source when CookiesFile is unset or unreadable
	CookiesFile string            // Path to a JSON array of cookie records

	// Response handling
	HTTPSuccessOnly     bool              // Treat non-2XX statuses as fetch failures
	IgnoredContentTypes map[string]string // Exact Content-Type value -> literal replacement text

	// Concurrency
	NumberThreads int           // Worker count for batch fetches
	ThreadTimeout time.Duration // Upper bound on waiting for a batch; 0 waits forever

	// Page cache (optional)
	Cache *cache.Manager // nil disables caching
}

// Default returns a configuration with safe defaults. It is the single
// default-construction path; callers needing different behavior adjust
// the returned value before the first fetch.
func Default() *Configuration {
	return &Configuration{
		RequestTimeout:   7 * time.Second,
		BrowserUserAgent: "htmlfetch/" + Version,
		HTTPSuccessOnly:  true,
		NumberThreads:    10,
		ThreadTimeout:    0, // The per-request timeout already bounds each task
	}
}

// Version is reported in the default User-Agent header.
const Version = "0.1.0"
