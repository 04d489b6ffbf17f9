package processor

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// NewClient returns the HTTP client used for both feeds.
// A zero timeout waits for the server indefinitely.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &RequestLogger{
			Next: &http.Transport{
				Proxy:        http.ProxyFromEnvironment,
				MaxIdleConns: 10,
			},
		},
		Timeout: timeout,
	}
}

// RequestLogger is a RoundTripper that logs outgoing requests.
type RequestLogger struct {
	Next http.RoundTripper
}

// RoundTrip performs the request with the wrapped transport and logs the outcome.
func (t *RequestLogger) RoundTrip(r *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}

	start := time.Now()
	resp, err := next.RoundTrip(r)
	if err != nil {
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Dur("duration", time.Since(start)).
			Msg("Request failed")
		return nil, err
	}

	log.Info().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request processed")

	return resp, nil
}
