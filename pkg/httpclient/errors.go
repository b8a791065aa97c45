package httpclient

import (
	"fmt"
	"strings"
)

const maxSnippetBytes = 512

// StatusError reports a response outside the 2xx range. The response is kept
// so callers can still inspect the status, headers and body.
type StatusError struct {
	Method   string
	URL      string
	Response Response
}

func (e *StatusError) Error() string {
	if e == nil || e.Response == nil {
		return "http response error"
	}
	snippet := readBodySnippet(e.Response.Body())
	if snippet == "" {
		return fmt.Sprintf("%s %s: http response status %d", e.Method, e.URL, e.Response.StatusCode())
	}
	return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.Response.StatusCode(), snippet)
}

// StatusCode returns the response status, or 0 when no response is attached.
func (e *StatusError) StatusCode() int {
	if e == nil || e.Response == nil {
		return 0
	}
	return e.Response.StatusCode()
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxSnippetBytes {
		body = body[:maxSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}
