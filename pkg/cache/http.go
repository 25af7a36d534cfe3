package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is the fallback freshness lifetime when the response
	// carries no usable caching headers
	DefaultTTL = 5 * time.Minute
)

// NewEntry builds a cache entry from a materialized response.
// Freshness is derived from the response headers; see expiresFrom.
func NewEntry(statusCode int, header http.Header, body []byte) *Entry {
	now := time.Now()
	return &Entry{
		Data:       body,
		StatusCode: statusCode,
		Header:     header.Clone(),
		FetchedAt:  now,
		Expires:    expiresFrom(header, now),
	}
}

// expiresFrom derives the expiration time from response headers.
// Cache-Control wins over Expires: no-store and no-cache expire the entry
// immediately, max-age sets the lifetime in seconds. Without Cache-Control,
// a parseable Expires header is used (clamped to now if already past).
// Anything else falls back to DefaultTTL.
func expiresFrom(header http.Header, now time.Time) time.Time {
	if cc := header.Get("Cache-Control"); cc != "" {
		var maxAge time.Duration
		hasMaxAge := false
		for _, directive := range strings.Split(cc, ",") {
			directive = strings.TrimSpace(strings.ToLower(directive))
			if directive == "no-store" || directive == "no-cache" {
				return now
			}
			if v, ok := strings.CutPrefix(directive, "max-age="); ok {
				if secs, err := strconv.Atoi(v); err == nil {
					maxAge = time.Duration(secs) * time.Second
					hasMaxAge = true
				}
			}
		}
		if hasMaxAge {
			return now.Add(maxAge)
		}
	}

	if expiresStr := header.Get("Expires"); expiresStr != "" {
		if expires, err := http.ParseTime(expiresStr); err == nil {
			if expires.Before(now) {
				return now
			}
			return expires
		}
	}

	return now.Add(DefaultTTL)
}
