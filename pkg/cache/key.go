package cache

// Key identifies a cached page by the URL it was fetched from.
type Key struct {
	// URL is the full request URL, scheme and query included.
	URL string
}

// String generates the Redis key for this page.
// Format: page:<url>
//
// Example:
//
//	page:https://example.com/articles/1?utm=rss
//
// The URL is used verbatim: two spellings of the same resource (trailing
// slash, query order) are distinct cache entries. Callers that want
// canonical keys must canonicalize the URL before fetching.
func (k Key) String() string {
	return "page:" + k.URL
}
