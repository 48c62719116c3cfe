package circuitbreaker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient is a thin wrapper over net/http whose requests all pass
// through one shared breaker. The chain client uses it to reach the
// wallet engine: once the engine starts timing out, calls fail fast
// instead of each holding a connection slot for the full timeout.
type HTTPClient struct {
	inner   *http.Client
	breaker *CircuitBreaker
	log     *zap.Logger
}

// Do sends the request through the breaker. A response with a 5xx
// status counts as a failure so a struggling upstream trips the breaker
// even while TCP stays healthy.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	out, err := c.breaker.ExecuteCtx(req.Context(), func(ctx context.Context) (interface{}, error) {
		resp, err := c.inner.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		// The 5xx response still owns a body; close it or the
		// connection cannot be reused.
		if resp, ok := out.(*http.Response); ok && resp != nil {
			resp.Body.Close()
		}
		if IsCircuitOpen(err) {
			c.log.Warn("Request blocked by open circuit",
				zap.String("breaker", c.breaker.Name()),
				zap.String("url", req.URL.String()),
			)
		}
		return nil, err
	}
	return out.(*http.Response), nil
}

// HTTPClientSettings bundles the transport timeout with the breaker
// tuning for one upstream.
type HTTPClientSettings struct {
	Name    string
	Timeout time.Duration

	MaxRequests      uint32
	Interval         time.Duration
	BreakerTimeout   time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// DefaultHTTPClientSettings is tuned for the wallet engine: 30s request
// timeout, trip after 5 failures, probe again after 30s.
func DefaultHTTPClientSettings(name string) HTTPClientSettings {
	return HTTPClientSettings{
		Name:             name,
		Timeout:          30 * time.Second,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		BreakerTimeout:   30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
	}
}

// NewHTTPClientWithSettings builds the client and its breaker together.
func NewHTTPClientWithSettings(settings HTTPClientSettings, log *zap.Logger) *HTTPClient {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breaker := New(Settings{
		Name:             settings.Name,
		MaxRequests:      settings.MaxRequests,
		Interval:         settings.Interval,
		Timeout:          settings.BreakerTimeout,
		FailureThreshold: settings.FailureThreshold,
		SuccessThreshold: settings.SuccessThreshold,
		OnStateChange: func(name string, from, to State) {
			log.Info("HTTP breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}, log)

	return &HTTPClient{
		inner:   &http.Client{Timeout: timeout},
		breaker: breaker,
		log:     log,
	}
}

// RetryWithBackoff retries fn with exponentially growing pauses capped
// at 30s. Breaker rejections return immediately: retrying into an open
// circuit only delays the caller.
func RetryWithBackoff(ctx context.Context, maxRetries int, initialDelay time.Duration, fn func() error) error {
	delay := initialDelay
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if IsCircuitOpen(lastErr) || IsTooManyRequests(lastErr) {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
