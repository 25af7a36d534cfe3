package fetch

import "fmt"

// StatusError reports a response whose status fell outside the 2XX range
// while the configuration demanded success-only fetches.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %s outside 2XX range", e.URL, e.Status)
}
