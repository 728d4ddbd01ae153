package httpclient

import (
	"strings"
	"unicode/utf8"
)

const summaryLimit = 120

// Response is a completed request. The underlying body is already closed.
type Response struct {
	StatusCode int
	Body       []byte
	// Truncated is set when the body exceeded the client's limit.
	Truncated bool
	JSONErr   error
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Summary returns the body on one line, cut to a short prefix for error
// messages.
func (r *Response) Summary() string {
	s := strings.Join(strings.Fields(string(r.Body)), " ")
	if s == "" {
		return "empty body"
	}
	if len(s) <= summaryLimit {
		return s
	}
	cut := summaryLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
