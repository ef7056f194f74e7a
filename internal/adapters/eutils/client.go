// Package eutils searches PubMed through the NCBI Entrez E-utilities.
package eutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"studybuddy/internal/metrics"
)

// DefaultBaseURL is the public E-utilities endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

const (
	defaultRetries  = 6
	pageSize        = 100

	// NCBI allows 3 requests per second, 10 with an API key.
	anonymousRate = 3
	keyedRate     = 10
)

// StatusError is a non-200 response from E-utilities.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Code)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client talks to E-utilities. It is safe for concurrent use.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	limiter     *rate.Limiter
	cb          *gobreaker.CircuitBreaker[[]byte]
	log         zerolog.Logger
	backoff     func(attempt int) time.Duration
	concurrency int
	retries     int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another E-utilities host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithAPIKey sends an NCBI API key and raises the request rate.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRateLimit overrides the requests-per-second budget.
func WithRateLimit(rps rate.Limit) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rps, 1) }
}

// WithBackoff overrides the delay before retry n (n starts at 1).
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(c *Client) { c.backoff = f }
}

// WithConcurrency sets how many fetch batches run at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxRetries sets how many times a failed request is sent again. Zero
// disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 5 * time.Minute},
		baseURL:     DefaultBaseURL,
		log:         zerolog.Nop(),
		backoff:     exponentialBackoff,
		concurrency: 2,
		retries:     defaultRetries,
	}
	for _, o := range opts {
		o(c)
	}
	if c.limiter == nil {
		rps := rate.Limit(anonymousRate)
		if c.apiKey != "" {
			rps = keyedRate
		}
		c.limiter = rate.NewLimiter(rps, 1)
	}
	c.cb = newBreaker(c.log)
	return c
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// newBreaker opens after at least 10 requests with 60% failures.
func newBreaker(log zerolog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	const name = "eutils"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		// client errors say nothing about the service's health
		IsSuccessful: func(err error) bool {
			var status *StatusError
			return err == nil || (errors.As(err, &status) && !status.Retryable())
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// get calls an endpoint and returns the body. 429, 5xx and transport errors
// are retried with exponential backoff; an open breaker fails fast.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	var lastErr error
	attempts := c.retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := time.Now()
		body, err := c.cb.Execute(func() ([]byte, error) {
			return c.do(ctx, endpoint, reqURL)
		})
		metrics.EUtilsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err == nil {
			metrics.EUtilsRequests.WithLabelValues(endpoint, "success").Inc()
			return body, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.EUtilsRequests.WithLabelValues(endpoint, "rejected").Inc()
			return nil, fmt.Errorf("%s: %w", endpoint, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var status *StatusError
		if errors.As(err, &status) && !status.Retryable() {
			metrics.EUtilsRequests.WithLabelValues(endpoint, "failure").Inc()
			return nil, err
		}

		lastErr = err
		if attempt == attempts {
			break
		}
		metrics.EUtilsRequests.WithLabelValues(endpoint, "retry").Inc()

		delay := c.backoff(attempt)
		c.log.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", attempt).Dur("retry_in", delay).Msg("request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	metrics.EUtilsRequests.WithLabelValues(endpoint, "failure").Inc()
	return nil, fmt.Errorf("%s failed after %d attempts: %w", endpoint, attempts, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
