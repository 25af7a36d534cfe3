package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scrapekit/htmlfetch/internal/testutil"
	"github.com/scrapekit/htmlfetch/pkg/cache"
	"github.com/scrapekit/htmlfetch/pkg/config"
	"github.com/scrapekit/htmlfetch/pkg/cookies"
)

func TestFetchHTML(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/article", testutil.NewHTMLPage("Breaking News", "<p>the story</p>"))

	html, err := FetchHTML(context.Background(), site.URL()+"/article", nil)
	if err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}
	if !strings.Contains(html, "Breaking News") {
		t.Errorf("html = %q, want the page title in it", html)
	}
}

func TestFetchHTML_StatusError(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/missing", testutil.NewErrorPage(http.StatusNotFound))

	html, err := FetchHTML(context.Background(), site.URL()+"/missing", config.Default())
	if err == nil {
		t.Fatal("FetchHTML should fail for 404 under the success-only policy")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
	}
	if html != "" {
		t.Errorf("html = %q, want empty on status failure", html)
	}
}

func TestFetchHTML_NonSuccessWithoutEnforcement(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/missing", testutil.NewErrorPage(http.StatusNotFound))

	cfg := config.Default()
	cfg.HTTPSuccessOnly = false

	html, err := FetchHTML(context.Background(), site.URL()+"/missing", cfg)
	if err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}
	if !strings.Contains(html, "404") {
		t.Errorf("html = %q, want the error page body", html)
	}
}

func TestGetHTML(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/ok", testutil.NewHTMLPage("Fine", "all good"))

	if html := GetHTML(context.Background(), site.URL()+"/ok", nil); !strings.Contains(html, "Fine") {
		t.Errorf("html = %q, want page content", html)
	}
}

func TestGetHTML_NeverFails(t *testing.T) {
	// Port 1 refuses connections; the wrapper must swallow that.
	html := GetHTML(context.Background(), "http://127.0.0.1:1/", config.Default())
	if html != "" {
		t.Errorf("html = %q, want empty string for refused connection", html)
	}
}

func TestFetchHTML_EmptyURL(t *testing.T) {
	if _, err := FetchHTML(context.Background(), "", config.Default()); err == nil {
		t.Error("FetchHTML with empty URL should fail, not crash")
	}
}

func TestFetchResponse_DefaultUserAgent(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()

	cfg := config.Default()
	if _, err := FetchResponse(context.Background(), site.URL()+"/ua", cfg); err != nil {
		t.Fatalf("FetchResponse failed: %v", err)
	}

	if got := site.GetLastRequestHeader().Get("User-Agent"); got != cfg.BrowserUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, cfg.BrowserUserAgent)
	}
}

func TestFetchResponse_ExplicitHeadersReplaceDefault(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()

	cfg := config.Default()
	cfg.Headers = map[string]string{"X-Scraper": "research", "Accept": "text/html"}

	if _, err := FetchResponse(context.Background(), site.URL()+"/headers", cfg); err != nil {
		t.Fatalf("FetchResponse failed: %v", err)
	}

	header := site.GetLastRequestHeader()
	if got := header.Get("X-Scraper"); got != "research" {
		t.Errorf("X-Scraper = %q, want %q", got, "research")
	}
	if got := header.Get("User-Agent"); got == cfg.BrowserUserAgent {
		t.Error("explicit headers should replace the default User-Agent entirely")
	}
}

func TestFetchHTML_SendsConfiguredCookies(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()

	cfg := config.Default()
	cfg.Cookies = []cookies.Record{
		{Name: "session_id", Value: "abc123", Path: "/"},
	}

	if _, err := FetchHTML(context.Background(), site.URL()+"/private", cfg); err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}

	cookie := findCookie(site.GetLastCookies(), "session_id")
	if cookie == nil {
		t.Fatal("session_id cookie was not sent")
	}
	if cookie.Value != "abc123" {
		t.Errorf("cookie value = %q, want %q", cookie.Value, "abc123")
	}
}

func TestFetchHTML_CookieFileOverridesConfigured(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()

	// Browser exports carry attributes the jar cannot represent; they
	// must be stripped on the way in, not rejected.
	path := filepath.Join(t.TempDir(), "cookies.json")
	data := `[{"name":"file_session","value":"from-file","path":"/","hostOnly":true,"session":true,"storeId":"0"}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("writing cookie file: %v", err)
	}

	cfg := config.Default()
	cfg.CookiesFile = path
	cfg.Cookies = []cookies.Record{{Name: "inline", Value: "nope", Path: "/"}}

	if _, err := FetchHTML(context.Background(), site.URL()+"/private", cfg); err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}

	if findCookie(site.GetLastCookies(), "file_session") == nil {
		t.Error("cookie from file was not sent")
	}
	if findCookie(site.GetLastCookies(), "inline") != nil {
		t.Error("configured cookie should be ignored when the file loads")
	}
}

func TestFetchHTML_CookieFileFallback(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()

	cfg := config.Default()
	cfg.CookiesFile = filepath.Join(t.TempDir(), "does-not-exist.json")
	cfg.Cookies = []cookies.Record{{Name: "inline", Value: "fallback", Path: "/"}}

	// A broken cookie file must never fail the fetch.
	if _, err := FetchHTML(context.Background(), site.URL()+"/private", cfg); err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}

	cookie := findCookie(site.GetLastCookies(), "inline")
	if cookie == nil {
		t.Fatal("fallback cookie was not sent")
	}
	if cookie.Value != "fallback" {
		t.Errorf("cookie value = %q, want %q", cookie.Value, "fallback")
	}
}

func TestFetchHTMLResponse_Replay(t *testing.T) {
	resp := &Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       []byte("<html>replayed</html>"),
	}

	// No network, and no status policy either: the pre-supplied
	// response is normalized as-is.
	got := FetchHTMLResponse(resp, config.Default())
	if got != "<html>replayed</html>" {
		t.Errorf("FetchHTMLResponse = %q, want the replayed body", got)
	}
}

func TestFetchResponse_MaterializesNonSuccess(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/broken", testutil.NewErrorPage(http.StatusInternalServerError))

	resp, err := FetchResponse(context.Background(), site.URL()+"/broken", config.Default())
	if err != nil {
		t.Fatalf("FetchResponse failed: %v", err)
	}
	if resp.Success() {
		t.Error("Success() = true for a 500 response")
	}
	if len(resp.Body) == 0 {
		t.Error("error page body should be materialized")
	}
}

func TestFetchHTML_IgnoredContentType(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/doc.pdf", testutil.NewPDFResponse())

	cfg := config.Default()
	cfg.IgnoredContentTypes = map[string]string{"application/pdf": "[PDF content]"}

	html, err := FetchHTML(context.Background(), site.URL()+"/doc.pdf", cfg)
	if err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}
	if html != "[PDF content]" {
		t.Errorf("html = %q, want the configured literal", html)
	}
}

func TestFetchHTML_MetaCharsetPage(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/jp", testutil.NewShiftJISPage())

	html, err := FetchHTML(context.Background(), site.URL()+"/jp", config.Default())
	if err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}
	if !strings.Contains(html, "こんにちは") {
		t.Errorf("html = %q, want decoded Japanese text", html)
	}
}

func TestFetchResponse_Timeout(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/slow", testutil.PageResponse{
		StatusCode: http.StatusOK,
		Body:       "<html>late</html>",
		Headers:    map[string]string{"Content-Type": "text/html"},
		Delay:      300 * time.Millisecond,
	})

	cfg := config.Default()
	cfg.RequestTimeout = 50 * time.Millisecond

	if _, err := FetchResponse(context.Background(), site.URL()+"/slow", cfg); err == nil {
		t.Error("FetchResponse should fail when the request timeout elapses")
	}
}

func TestFetchHTML_FollowsRedirects(t *testing.T) {
	site := testutil.NewMockSite()
	defer site.Close()
	site.SetHandler("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	site.SetPage("/new", testutil.NewHTMLPage("Landed", "moved here"))

	html, err := FetchHTML(context.Background(), site.URL()+"/old", config.Default())
	if err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}
	if !strings.Contains(html, "Landed") {
		t.Errorf("html = %q, want the redirect target page", html)
	}
}

func TestFetchResponse_CacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	site := testutil.NewMockSite()
	defer site.Close()
	site.SetPage("/cached", testutil.PageResponse{
		StatusCode: http.StatusOK,
		Body:       "<html>cached page</html>",
		Headers: map[string]string{
			"Content-Type":  "text/html; charset=utf-8",
			"Cache-Control": "max-age=300",
		},
	})

	cfg := config.Default()
	cfg.Cache = cache.NewManager(client)

	first, err := FetchResponse(ctx, site.URL()+"/cached", cfg)
	if err != nil {
		t.Fatalf("first FetchResponse failed: %v", err)
	}
	second, err := FetchResponse(ctx, site.URL()+"/cached", cfg)
	if err != nil {
		t.Fatalf("second FetchResponse failed: %v", err)
	}

	if got := site.GetPathCount("/cached"); got != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch served from cache)", got)
	}
	if string(second.Body) != string(first.Body) {
		t.Errorf("cached body = %q, want %q", second.Body, first.Body)
	}
	if second.StatusCode != http.StatusOK {
		t.Errorf("cached status = %d, want 200", second.StatusCode)
	}
}

func TestRequestHeaders(t *testing.T) {
	cfg := config.Default()
	headers := requestHeaders(cfg)
	if got := headers["User-Agent"]; got != cfg.BrowserUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, cfg.BrowserUserAgent)
	}

	cfg.Headers = map[string]string{"Accept": "text/html"}
	headers = requestHeaders(cfg)
	if _, ok := headers["User-Agent"]; ok {
		t.Error("explicit headers should not gain an implicit User-Agent")
	}
	if headers["Accept"] != "text/html" {
		t.Errorf("Accept = %q, want %q", headers["Accept"], "text/html")
	}
}

func TestTransportFor(t *testing.T) {
	cfg := config.Default()
	if rt := transportFor(cfg); rt != nil {
		t.Error("no proxies should use the shared default transport")
	}

	cfg.Proxies = map[string]string{
		"http":     "http://proxy.internal:3128",
		"no_proxy": "trusted.example.com",
	}
	rt := transportFor(cfg)
	transport, ok := rt.(*http.Transport)
	if !ok {
		t.Fatalf("transport type = %T, want *http.Transport", rt)
	}

	proxied := httptest.NewRequest(http.MethodGet, "http://other.example.org/", nil)
	proxyURL, err := transport.Proxy(proxied)
	if err != nil {
		t.Fatalf("proxy resolution failed: %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "proxy.internal:3128" {
		t.Errorf("proxy = %v, want proxy.internal:3128", proxyURL)
	}

	direct := httptest.NewRequest(http.MethodGet, "http://trusted.example.com/", nil)
	proxyURL, err = transport.Proxy(direct)
	if err != nil {
		t.Fatalf("proxy resolution failed: %v", err)
	}
	if proxyURL != nil {
		t.Errorf("proxy = %v, want direct for no_proxy host", proxyURL)
	}
}

// findCookie returns the named cookie, or nil when absent.
func findCookie(cookieList []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookieList {
		if c.Name == name {
			return c
		}
	}
	return nil
}
