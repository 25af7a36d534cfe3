package cache

import (
	"net/http"
	"time"
)

// Entry represents a cached page.
type Entry struct {
	// Data is the raw response body, before any text decoding
	Data []byte `json:"data"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Header holds the response headers
	Header http.Header `json:"header"`

	// FetchedAt is when the page was fetched
	FetchedAt time.Time `json:"fetched_at"`

	// Expires is when the entry becomes stale (derived from response headers)
	Expires time.Time `json:"expires"`
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
