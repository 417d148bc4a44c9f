package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultRateInterval   = 100 * time.Millisecond
	maxErrorBody          = 512
)

// ErrEmptyQuery is returned when Forward is called with blank text.
var ErrEmptyQuery = errors.New("geocode: empty query")

// StatusError is returned for any non-200 upstream reply.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Provider, e.Code, e.Body)
}

// Temporary reports whether retrying later could succeed (429 and 5xx).
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Option configures the HTTP providers.
type Option func(*httpTransport)

// WithEndpoint overrides the provider base URL.
func WithEndpoint(endpoint string) Option {
	return func(t *httpTransport) {
		if endpoint != "" {
			t.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *httpTransport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout sets the per request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(t *httpTransport) {
		if d > 0 {
			t.client.Timeout = d
		}
	}
}

// WithRateInterval spaces outgoing requests at least d apart. Zero disables limiting.
func WithRateInterval(d time.Duration) Option {
	return func(t *httpTransport) {
		if d <= 0 {
			t.limiter = nil
			return
		}
		t.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(t *httpTransport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// httpTransport holds what both providers share: client, limiter, endpoint.
type httpTransport struct {
	provider  string
	endpoint  string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

func newTransport(provider, endpoint string, opts []Option) *httpTransport {
	t := &httpTransport{
		provider:  provider,
		endpoint:  endpoint,
		userAgent: "geoserve/1.0",
		client:    &http.Client{Timeout: defaultRequestTimeout},
		limiter:   rate.NewLimiter(rate.Every(defaultRateInterval), 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// get waits for the limiter, performs the request and returns the body of a 200 reply.
func (t *httpTransport) get(ctx context.Context, reqURL string) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		log.Debugf("%s request failed after %v: %v", t.provider, time.Since(start), err)
		return nil, fmt.Errorf("%s request: %w", t.provider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warnf("%s upstream error: status=%d", t.provider, resp.StatusCode)
		return nil, &StatusError{Provider: t.provider, Code: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", t.provider, err)
	}
	log.Debugf("%s replied in %v (%d bytes)", t.provider, time.Since(start), len(body))
	return body, nil
}
