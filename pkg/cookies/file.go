package cookies

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseRecords decodes a JSON array of raw cookie maps, strips the filtered
// attributes from each, and returns the resulting records.
func ParseRecords(data []byte) ([]Record, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse cookie records: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, m := range raw {
		StripAttributes(m)
		records = append(records, recordFromMap(m))
	}
	return records, nil
}

// LoadFile reads a cookie file from disk and parses it.
// The file must contain a JSON array of cookie attribute maps, the format
// produced by common browser cookie exporters.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}
	return ParseRecords(data)
}
