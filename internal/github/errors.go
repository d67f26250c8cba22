package github

import (
	"errors"
	"fmt"

	"github.com/cli/go-gh/v2/pkg/api"
)

// APIError describes a failed GitHub request with enough context to render
// inline: the request URL, the upstream HTTP status when available, and
// the raw message.
type APIError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("GET %s: %s", e.URL, e.Message)
}

// wrapAPIError converts a transport error into an APIError, extracting the
// status code and request URL from go-gh's HTTPError when present.
func wrapAPIError(endpoint string, err error) error {
	apiErr := &APIError{URL: endpoint, Message: err.Error()}

	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		apiErr.StatusCode = httpErr.StatusCode
		if httpErr.RequestURL != nil {
			apiErr.URL = httpErr.RequestURL.String()
		}
		if httpErr.Message != "" {
			apiErr.Message = httpErr.Message
		}
	}

	return apiErr
}
