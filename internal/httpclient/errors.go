package httpclient

import (
	"fmt"
	"net/http"
)

// UpstreamError is a non-2xx answer from an upstream service. Body holds the
// raw payload so callers can extract provider specific error details.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}
