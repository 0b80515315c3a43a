package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrUnavailable means no data could be obtained: transient failures exhausted every attempt
	// or the circuit breaker is open. Callers treat it as "no data available" and move on.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrPermanent marks failures that retrying cannot fix.
	ErrPermanent = errors.New("upstream request failed permanently")
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.Code, e.Body)
}

// Transient reports whether the status is a gateway-class failure worth retrying.
func (e *StatusError) Transient() bool {
	switch e.Code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// isTransient: only gateway statuses and timeouts are retried.
func isTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
