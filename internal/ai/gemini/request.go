package gemini

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// requestTimeout bounds a single generateContent call. Timed-out calls
// surface as AI failures; no retries are performed.
const requestTimeout = 30 * time.Second

// Transport performs the raw POST to the provider. Abstracted so tests can
// count invocations and fake provider responses without a network.
type Transport interface {
	Post(ctx context.Context, url string, body []byte) (status int, respBody []byte, err error)
}

// HTTPTransport is the production Transport: JSON POST with a fixed
// timeout, smoothed by a local limiter so bursts of admin clicks do not
// hammer the provider.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPTransport creates the production transport.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Post sends the request body and returns the status code and raw response
// body.
func (t *HTTPTransport) Post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, respBody, nil
}
