package httpclient

import "net/http"

// RequestOption adjusts a request before it is sent.
type RequestOption func(*http.Request)

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// WithBearer sends token as given. An empty token still sends the header
// so the server decides.
func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}
