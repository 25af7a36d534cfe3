package fetch

import (
	"mime"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/scrapekit/htmlfetch/pkg/config"
)

// fallbackCharset is the label a transport reports when it defaulted
// instead of detecting a real encoding. Sites mislabeled this way are
// usually UTF-8 underneath, so their bytes pass through undecoded.
const fallbackCharset = "iso-8859-1"

// Declaration patterns checked inside the document when the Content-Type
// header names no charset. Checked in order, first match wins.
var (
	metaCharsetRe = regexp.MustCompile(`(?i)<meta[^>]*?charset=["']?\s*([^"'>\s;]+)`)
	metaPragmaRe  = regexp.MustCompile(`(?i)<meta[^>]*?content=["'][^"']*?charset=([^"'>\s;]+)`)
	xmlDeclRe     = regexp.MustCompile(`^<\?xml[^>]*?encoding=["']?([^"'>\s?]+)`)
)

// Normalize converts a materialized response into text.
//
// The chain: an exact Content-Type match in cfg.IgnoredContentTypes
// returns the mapped literal, an empty body returns "", a charset named
// by the header is decoded (except the fallback sentinel, whose bytes
// pass through raw), and a header without charset falls back to the
// first charset declaration found in the body. When nothing usable is
// declared anywhere, the raw bytes pass through as-is.
func Normalize(resp *Response, cfg *config.Configuration) string {
	if resp == nil {
		return ""
	}
	if cfg == nil {
		cfg = config.Default()
	}

	contentType := resp.Header.Get("Content-Type")
	if literal, ok := cfg.IgnoredContentTypes[contentType]; ok {
		return literal
	}
	if len(resp.Body) == 0 {
		return ""
	}

	label := headerCharset(contentType)
	switch {
	case label == fallbackCharset:
		// The transport could not determine the real encoding.
	case label != "":
		if text, ok := decode(resp.Body, label); ok {
			return text
		}
	default:
		if declared := declaredCharset(resp.Body); declared != "" {
			if text, ok := decode(resp.Body, declared); ok {
				return text
			}
		}
	}
	return string(resp.Body)
}

// headerCharset extracts the charset parameter from a Content-Type value.
func headerCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	// Servers occasionally single-quote the value; mime keeps those quotes.
	return strings.ToLower(strings.Trim(params["charset"], `'"`))
}

// declaredCharset scans document bytes for an embedded charset
// declaration: meta charset, meta http-equiv pragma, XML declaration.
func declaredCharset(body []byte) string {
	for _, re := range []*regexp.Regexp{metaCharsetRe, metaPragmaRe, xmlDeclRe} {
		if m := re.FindSubmatch(body); m != nil {
			return strings.ToLower(string(m[1]))
		}
	}
	return ""
}

// decode converts body bytes using the encoding registered under label.
// Unknown labels and transform failures report false so the caller stays
// on the raw-bytes path.
func decode(body []byte, label string) (string, bool) {
	enc, _ := charset.Lookup(label)
	if enc == nil {
		return "", false
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
