// Package cookies provides cookie records for HTTP fetching, including
// attribute stripping for browser-exported cookie files and jar construction.
package cookies

// FilteredAttributes lists the cookie attributes removed before a record is
// handed to jar construction. These keys appear in browser-export formats but
// carry no meaning for an outgoing request.
var FilteredAttributes = []string{
	"hostOnly",
	"session",
	"storeId",
	"id",
	"sameSite",
	"httpOnly",
	"expirationDate",
}

// Record is a single cookie as consumed by jar construction.
// Only the attributes that survive stripping are represented; anything else
// found in a raw cookie map is dropped rather than passed through untyped.
type Record struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
	Path   string `json:"path,omitempty"`
	Secure bool   `json:"secure,omitempty"`
}

// StripAttributes removes the filtered attributes from a raw cookie map
// in place. Stripping is idempotent: applying it twice leaves the map in
// the same state as applying it once.
func StripAttributes(raw map[string]any) {
	for _, attr := range FilteredAttributes {
		delete(raw, attr)
	}
}

// recordFromMap builds a Record from a stripped raw cookie map.
// Unrecognized keys are ignored.
func recordFromMap(raw map[string]any) Record {
	rec := Record{}
	if v, ok := raw["name"].(string); ok {
		rec.Name = v
	}
	if v, ok := raw["value"].(string); ok {
		rec.Value = v
	}
	if v, ok := raw["domain"].(string); ok {
		rec.Domain = v
	}
	if v, ok := raw["path"].(string); ok {
		rec.Path = v
	}
	if v, ok := raw["secure"].(bool); ok {
		rec.Secure = v
	}
	return rec
}
