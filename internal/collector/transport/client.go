// Package transport talks to the upstream GraphQL and REST endpoints with bounded retries.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/metrics"
)

const (
	maxBodyBytes  = 32 << 20
	errBodyPrefix = 512
	breakerName   = "upstream"
)

// Request is one GraphQL operation.
type Request struct {
	URL           string
	OperationName string
	Query         string
	Variables     map[string]any
}

type gqlError struct {
	Message string `json:"message"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Client issues upstream requests. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cfg     config.ProviderConfig
	breaker *gobreaker.CircuitBreaker[[]byte]
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(cfg *config.ProviderConfig) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

func NewWithHTTPClient(cfg *config.ProviderConfig, hc *http.Client) *Client {
	c := &Client{http: hc, cfg: *cfg, sleep: sleepContext}
	if c.cfg.MaxAttempts <= 0 {
		c.cfg.MaxAttempts = 3
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker)
	}
	return c
}

func newBreaker(cfg config.BreakerConfig) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Permanent failures say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Do posts a GraphQL document and returns the envelope's data object.
// An envelope without data is a permanent failure; errors next to data are logged and ignored.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"operationName": req.OperationName,
		"query":         req.Query,
		"variables":     req.Variables,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode %s: %w", ErrPermanent, req.OperationName, err)
	}

	raw, err := c.send(ctx, req.OperationName, http.MethodPost, req.URL, body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: response is not JSON: %w", ErrPermanent, req.OperationName, err)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		if len(env.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s: graphql errors: %s", ErrPermanent, req.OperationName, joinErrors(env.Errors))
		}
		return nil, fmt.Errorf("%w: %s: response has no data", ErrPermanent, req.OperationName)
	}
	if len(env.Errors) > 0 {
		slog.Warn("GraphQL response carried errors next to data", "operation", req.OperationName, "errors", joinErrors(env.Errors))
	}
	return env.Data, nil
}

// PostJSON posts a REST JSON body and returns the raw JSON response.
func (c *Client) PostJSON(ctx context.Context, operation, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode %s: %w", ErrPermanent, operation, err)
	}
	raw, err := c.send(ctx, operation, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %s: response is not JSON", ErrPermanent, operation)
	}
	return raw, nil
}

// GetPage fetches an HTML page.
func (c *Client) GetPage(ctx context.Context, url string) ([]byte, error) {
	return c.send(ctx, "page", http.MethodGet, url, nil)
}

// send runs up to MaxAttempts attempts. Only transient failures are retried, with the delay
// doubling between attempts up to MaxRetryDelay.
func (c *Client) send(ctx context.Context, operation, method, url string, body []byte) ([]byte, error) {
	delay := c.cfg.RetryDelay
	for attempt := 1; ; attempt++ {
		data, err := c.attempt(ctx, operation, method, url, body)
		if err == nil {
			return data, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("Upstream request rejected by circuit breaker", "operation", operation)
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, operation, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !isTransient(err) {
			slog.Error("Upstream request failed", "operation", operation, "attempt", attempt, "error", err)
			return nil, fmt.Errorf("%w: %s: %w", ErrPermanent, operation, err)
		}
		if attempt >= c.cfg.MaxAttempts {
			slog.Error("Upstream unavailable, giving up", "operation", operation, "attempts", attempt, "error", err)
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", ErrUnavailable, operation, attempt, err)
		}

		slog.Warn("Upstream request failed, retrying",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", c.cfg.MaxAttempts,
			"delay", delay,
			"error", err)
		metrics.RecordUpstreamRetry(operation)

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
		if c.cfg.MaxRetryDelay > 0 && delay > c.cfg.MaxRetryDelay {
			delay = c.cfg.MaxRetryDelay
		}
	}
}

func (c *Client) attempt(ctx context.Context, operation, method, url string, body []byte) ([]byte, error) {
	if c.breaker == nil {
		return c.roundTrip(ctx, operation, method, url, body)
	}
	return c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, operation, method, url, body)
	})
}

func (c *Client) roundTrip(ctx context.Context, operation, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamAttempt(operation, resultLabel(err), time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordUpstreamAttempt(operation, resultLabel(err), time.Since(start))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode, Body: truncate(string(data), errBodyPrefix)}
		metrics.RecordUpstreamAttempt(operation, resultLabel(se), time.Since(start))
		return nil, se
	}

	metrics.RecordUpstreamAttempt(operation, "ok", time.Since(start))
	return data, nil
}

func resultLabel(err error) string {
	if isTransient(err) {
		return "transient"
	}
	return "permanent"
}

func joinErrors(errs []gqlError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
