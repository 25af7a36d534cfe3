// Package fetch downloads web pages and normalizes their bodies into
// text, single URLs or whole batches at a time.
//
// # Single Fetches
//
// FetchHTML propagates failures, GetHTML swallows them:
//
//	html, err := fetch.FetchHTML(ctx, "https://example.com/news", nil)
//	html := fetch.GetHTML(ctx, "https://example.com/news", nil)
//
// A nil configuration means config.Default(). Explicit headers, cookies,
// cookie files, proxies and the success-only policy all come from the
// configuration value.
//
// # Batch Fetches
//
// FetchAll fans URLs out across a worker pool and returns one task per
// URL in input order:
//
//	tasks := fetch.FetchAll(ctx, urls, cfg)
//	for _, t := range tasks {
//		if t.Result() == nil {
//			// fetch failed, collect t.URL for a later retry
//			continue
//		}
//		html := fetch.FetchHTMLResponse(t.Result(), cfg)
//	}
//
// # Text Normalization
//
// Normalize decodes response bodies using the charset named by the
// Content-Type header, falling back to charset declarations embedded in
// the document. Responses whose Content-Type is listed in
// cfg.IgnoredContentTypes short-circuit to a configured literal, which
// keeps binary formats like PDFs from being decoded as text.
package fetch
