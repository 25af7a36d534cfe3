package cookies

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NewJar builds a cookie jar seeded with the given records.
// Each record is planted under its own domain; records without a domain are
// planted under the target URL's host. Records the jar rejects (malformed
// domains and the like) are silently dropped, matching jar semantics for
// Set-Cookie headers.
func NewJar(records []Record, target *url.URL) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	for _, rec := range records {
		seed := seedURL(rec, target)
		if seed == nil {
			continue
		}
		jar.SetCookies(seed, []*http.Cookie{{
			Name:   rec.Name,
			Value:  rec.Value,
			Domain: rec.Domain,
			Path:   rec.Path,
			Secure: rec.Secure,
		}})
	}

	return jar, nil
}

// seedURL picks the URL a record is planted under. The https scheme is used
// so that secure cookies are accepted into the jar; whether they are sent
// later is decided by the jar against the actual request URL.
func seedURL(rec Record, target *url.URL) *url.URL {
	host := strings.TrimPrefix(rec.Domain, ".")
	if host == "" {
		if target == nil {
			return nil
		}
		host = target.Hostname()
	}
	if host == "" {
		return nil
	}
	return &url.URL{Scheme: "https", Host: host, Path: "/"}
}
