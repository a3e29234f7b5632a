// Package remote talks to the network: it downloads repository archives from
// GitHub and publishes skills to the skills API.
package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient returns an HTTP client with the given timeout.
// Redirects are followed.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// HTTPError is returned for responses outside the 2xx range.
type HTTPError struct {
	StatusCode int
	// Message is the API error message when the body carries one,
	// otherwise the raw body or the status text.
	Message string
	Body    string
	URL     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Message)
}

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// newHTTPError reads the response body and extracts {"error":{"message":...}}.
func newHTTPError(resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		e.URL = resp.Request.URL.String()
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	switch {
	case json.Unmarshal(body, &payload) == nil && payload.Error.Message != "":
		e.Message = payload.Error.Message
	case isShortText(e.Body):
		e.Message = strings.TrimSpace(e.Body)
	default:
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// isShortText reports whether a body is a one-line message rather than a page.
func isShortText(body string) bool {
	body = strings.TrimSpace(body)
	return body != "" && len(body) <= 200 && !strings.ContainsAny(body, "\n<")
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
