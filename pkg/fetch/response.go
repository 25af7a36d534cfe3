package fetch

import (
	"fmt"
	"io"
	"net/http"
)

// Response is a materialized snapshot of one HTTP exchange. The body is
// read eagerly so the value can cross goroutine boundaries and outlive
// the transport connection it came from.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is in the 2XX range.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// materialize drains a transport response into a snapshot. The caller
// remains responsible for closing the original body.
func materialize(resp *http.Response) (*Response, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}
