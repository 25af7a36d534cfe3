package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/http/httpproxy"

	"github.com/scrapekit/htmlfetch/pkg/cache"
	"github.com/scrapekit/htmlfetch/pkg/config"
	"github.com/scrapekit/htmlfetch/pkg/cookies"
)

// FetchHTML fetches one URL and returns its normalized text. With
// HTTPSuccessOnly set, any non-2XX status returns a *StatusError. This
// is the propagating entry point; GetHTML is the swallowing one.
func FetchHTML(ctx context.Context, rawURL string, cfg *config.Configuration) (string, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	resp, err := FetchResponse(ctx, rawURL, cfg)
	if err != nil {
		return "", err
	}

	html := Normalize(resp, cfg)
	if cfg.HTTPSuccessOnly && !resp.Success() {
		fetchFailuresTotal.WithLabelValues("status").Inc()
		return "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: rawURL}
	}
	return html, nil
}

// GetHTML is the never-fails wrapper around FetchHTML for best-effort
// callers: failures are logged at debug level and yield an empty string.
func GetHTML(ctx context.Context, rawURL string, cfg *config.Configuration) string {
	html, err := FetchHTML(ctx, rawURL, cfg)
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Msg("Fetch failed")
		return ""
	}
	return html
}

// FetchHTMLResponse normalizes a pre-supplied response without touching
// the network. Replay path for tests and pre-captured exchanges; no
// status policy applies here.
func FetchHTMLResponse(resp *Response, cfg *config.Configuration) string {
	return Normalize(resp, cfg)
}

// FetchResponse issues one GET with the assembled request options and
// returns the materialized response regardless of status code. When
// cfg.Cache is set, fresh cached pages short-circuit the network and
// 200 responses are stored on the way out.
func FetchResponse(ctx context.Context, rawURL string, cfg *config.Configuration) (*Response, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if cfg.Cache != nil {
		if resp := cachedResponse(ctx, cfg.Cache, rawURL); resp != nil {
			return resp, nil
		}
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		fetchFailuresTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	for name, value := range requestHeaders(cfg) {
		req.Header.Set(name, value)
	}

	jar, err := cookies.NewJar(resolveCookies(cfg), req.URL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("Cookie jar construction failed, fetching without cookies")
		jar = nil
	}

	client := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Jar:       jar,
		Transport: transportFor(cfg),
	}

	httpResp, err := client.Do(req)
	if err != nil {
		fetchRequestsTotal.WithLabelValues("error").Inc()
		fetchFailuresTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer httpResp.Body.Close()

	resp, err := materialize(httpResp)
	if err != nil {
		fetchRequestsTotal.WithLabelValues("error").Inc()
		fetchFailuresTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	fetchRequestDuration.Observe(time.Since(start).Seconds())
	fetchRequestsTotal.WithLabelValues(statusClass(resp.StatusCode)).Inc()

	if cfg.Cache != nil && resp.StatusCode == http.StatusOK {
		entry := cache.NewEntry(resp.StatusCode, resp.Header, resp.Body)
		if err := cfg.Cache.Set(ctx, cache.Key{URL: rawURL}, entry); err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("Page cache write failed")
		}
	}
	return resp, nil
}

// cachedResponse returns a response rebuilt from a fresh cache entry, or
// nil when the page must go to the network.
func cachedResponse(ctx context.Context, manager *cache.Manager, rawURL string) *Response {
	entry, err := manager.Get(ctx, cache.Key{URL: rawURL})
	if err != nil {
		if err != cache.ErrCacheMiss {
			log.Warn().Err(err).Str("url", rawURL).Msg("Page cache read failed")
		}
		return nil
	}
	return &Response{
		StatusCode: entry.StatusCode,
		Status:     fmt.Sprintf("%d %s", entry.StatusCode, http.StatusText(entry.StatusCode)),
		Header:     entry.Header.Clone(),
		Body:       entry.Data,
	}
}

// requestHeaders returns the explicit header mapping, or the single
// User-Agent header when none is configured.
func requestHeaders(cfg *config.Configuration) map[string]string {
	if len(cfg.Headers) > 0 {
		return cfg.Headers
	}
	return map[string]string{"User-Agent": cfg.BrowserUserAgent}
}

// resolveCookies loads cookie records from the configured file, falling
// back to the inline records on any failure. Load problems are logged,
// never raised.
func resolveCookies(cfg *config.Configuration) []cookies.Record {
	if cfg.CookiesFile == "" {
		return cfg.Cookies
	}

	log.Info().Str("path", cfg.CookiesFile).Msg("Loading cookie file")
	records, err := cookies.LoadFile(cfg.CookiesFile)
	if err != nil {
		log.Error().
			Err(err).
			Str("path", cfg.CookiesFile).
			Msg("Cookie file load failed, using configured cookies")
		return cfg.Cookies
	}
	return records
}

// transportFor returns nil (the shared default transport) for direct
// fetches, or a clone routing through the configured proxies.
func transportFor(cfg *config.Configuration) http.RoundTripper {
	if len(cfg.Proxies) == 0 {
		return nil
	}

	proxies := &httpproxy.Config{
		HTTPProxy:  cfg.Proxies["http"],
		HTTPSProxy: cfg.Proxies["https"],
		NoProxy:    cfg.Proxies["no_proxy"],
	}
	proxyFunc := proxies.ProxyFunc()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}
	return transport
}
