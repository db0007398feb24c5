package completion

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/nulzo/intent-router/internal/httpclient"
)

// APIError is returned by Complete for any transport or backend failure.
// StatusCode is 0 when no response was received.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       interface{}
	Err        error
}

func (e *APIError) Error() string {
	return "api error: " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// upstreamErrorResponse mirrors the OpenAI error shape.
type upstreamErrorResponse struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

func newAPIError(err error) *APIError {
	apiErr := &APIError{Message: err.Error(), Err: err}

	var upstreamErr *httpclient.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return apiErr
	}
	apiErr.StatusCode = upstreamErr.StatusCode

	var body upstreamErrorResponse
	if jsonErr := json.Unmarshal(upstreamErr.Body, &body); jsonErr == nil && strings.TrimSpace(body.Error.Message) != "" {
		apiErr.Message = body.Error.Message
		apiErr.Type = body.Error.Type
		apiErr.Code = body.Error.Code
	}

	return apiErr
}
