// Package testutil provides testing utilities for the fetch toolkit.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"golang.org/x/text/encoding/japanese"
)

// PageResponse defines the behavior of a mock site page.
type PageResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockSite is a configurable mock web server for fetch tests.
type MockSite struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	PathCounts        map[string]int
	LastRequestHeader http.Header
	LastCookies       []*http.Cookie
}

// NewMockSite creates a new mock site server.
func NewMockSite() *MockSite {
	mock := &MockSite{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastCookies = r.Cookies()
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default handler
		mock.defaultHandler(w)
	}))

	return mock
}

// URL returns the mock site URL.
func (m *MockSite) URL() string {
	return m.server.URL
}

// Close shuts down the mock site.
func (m *MockSite) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockSite) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
	m.LastRequestHeader = nil
	m.LastCookies = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockSite) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetPage configures a canned page for a path.
func (m *MockSite) SetPage(path string, page PageResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if page.Delay > 0 {
			time.Sleep(page.Delay)
		}

		for key, value := range page.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(page.StatusCode)
		if page.Body != "" {
			w.Write([]byte(page.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the site.
func (m *MockSite) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to one path.
func (m *MockSite) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// GetLastCookies returns the cookies sent with the most recent request.
func (m *MockSite) GetLastCookies() []*http.Cookie {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastCookies
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockSite) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// defaultHandler serves a plain HTML page for unconfigured paths.
func (m *MockSite) defaultHandler(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<html><body><h1>mock site</h1></body></html>`))
}

// NewHTMLPage creates a standard UTF-8 HTML page response.
func NewHTMLPage(title, body string) PageResponse {
	return PageResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`<html><head><title>%s</title></head><body>%s</body></html>`, title, body),
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
	}
}

// NewShiftJISPage creates a page whose bytes are Shift JIS encoded and
// whose charset is declared only in a meta tag, not in the header.
func NewShiftJISPage() PageResponse {
	const page = `<html><head><meta charset="shift_jis"></head><body>こんにちは</body></html>`
	encoded, _ := japanese.ShiftJIS.NewEncoder().String(page)
	return PageResponse{
		StatusCode: http.StatusOK,
		Body:       encoded,
		Headers: map[string]string{
			"Content-Type": "text/html",
		},
	}
}

// NewPDFResponse creates a response carrying PDF bytes.
func NewPDFResponse() PageResponse {
	return PageResponse{
		StatusCode: http.StatusOK,
		Body:       "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog >>\nendobj",
		Headers: map[string]string{
			"Content-Type": "application/pdf",
		},
	}
}

// NewErrorPage creates an HTML error response with the given status.
func NewErrorPage(statusCode int) PageResponse {
	return PageResponse{
		StatusCode: statusCode,
		Body:       fmt.Sprintf(`<html><body><h1>%d %s</h1></body></html>`, statusCode, http.StatusText(statusCode)),
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
	}
}
