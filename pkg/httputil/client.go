package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single backend request. Answers can take a while
// to generate, so it is generous.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client with the given timeout, or
// DefaultTimeout when timeout is not positive.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
