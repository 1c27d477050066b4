package completion

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoChoices is returned when the completion API answers without choices[0]
var ErrNoChoices = errors.New("no choices in response")

// UpstreamError reports a failed call to the completion API: transport
// failure, non-2xx status, undecodable body or a response missing the
// expected fields. StatusCode is zero when no HTTP status was received.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func newUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, StatusCode: statusCode(err), Err: err}
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// IsUpstreamError reports whether err is, or wraps, an UpstreamError
func IsUpstreamError(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}
