package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
)

func testConfig() *config.ProviderConfig {
	return &config.ProviderConfig{
		Timeout:     time.Second,
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
		UserAgent:   "collegetennis-test",
	}
}

// countingServer answers each request with the next status from statuses (repeating the last one).
func countingServer(t *testing.T, statuses []int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&hits, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestDo_RetriesExactlyMaxAttempts(t *testing.T) {
	for _, attempts := range []int{1, 3, 5} {
		srv, hits := countingServer(t, []int{http.StatusBadGateway}, "bad gateway")
		cfg := testConfig()
		cfg.MaxAttempts = attempts
		c := New(cfg)

		_, err := c.Do(context.Background(), Request{URL: srv.URL, OperationName: "dualMatchesPaginated"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable), "want ErrUnavailable, got %v", err)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadGateway, se.Code)
		assert.Equal(t, int32(attempts), atomic.LoadInt32(hits), "max_attempts=%d", attempts)
	}
}

func TestDo_PermanentStatusNotRetried(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		srv, hits := countingServer(t, []int{code}, "nope")
		c := New(testConfig())

		_, err := c.Do(context.Background(), Request{URL: srv.URL, OperationName: "op"})

		assert.True(t, errors.Is(err, ErrPermanent), "HTTP %d: got %v", code, err)
		assert.False(t, errors.Is(err, ErrUnavailable))
		assert.Equal(t, int32(1), atomic.LoadInt32(hits), "HTTP %d", code)
	}
}

func TestDo_RecoversAfterTransientFailure(t *testing.T) {
	srv, hits := countingServer(t, []int{http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusOK}, `{"data":{"ok":true}}`)
	c := New(testConfig())

	data, err := c.Do(context.Background(), Request{URL: srv.URL, OperationName: "op"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestDo_Envelope(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantData  string
		permanent bool
	}{
		{"data", `{"data":{"a":1}}`, `{"a":1}`, false},
		{"data with errors", `{"data":{"a":1},"errors":[{"message":"partial"}]}`, `{"a":1}`, false},
		{"errors only", `{"errors":[{"message":"unknown field"}]}`, "", true},
		{"null data", `{"data":null}`, "", true},
		{"missing data", `{}`, "", true},
		{"not json", `<html>maintenance</html>`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := countingServer(t, []int{http.StatusOK}, tt.body)
			c := New(testConfig())

			data, err := c.Do(context.Background(), Request{URL: srv.URL, OperationName: "op"})
			if tt.permanent {
				assert.True(t, errors.Is(err, ErrPermanent), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantData, string(data))
		})
	}
}

func TestDo_SendsGraphQLDocument(t *testing.T) {
	var got map[string]any
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Headers = map[string]string{"X-Api-Key": "k"}
	c := New(cfg)
	_, err := c.Do(context.Background(), Request{
		URL:           srv.URL,
		OperationName: "listSeasons",
		Query:         "query listSeasons { listSeasons { id } }",
		Variables:     map[string]any{"includeDeletedAndPending": false},
	})

	require.NoError(t, err)
	assert.Equal(t, "listSeasons", got["operationName"])
	assert.Equal(t, map[string]any{"includeDeletedAndPending": false}, got["variables"])
	assert.Equal(t, "collegetennis-test", ua)
}

func TestDo_TimeoutIsTransient(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.MaxAttempts = 2
	c := New(cfg)

	_, err := c.Do(context.Background(), Request{URL: srv.URL, OperationName: "op"})

	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSend_DelayDoublesUpToMax(t *testing.T) {
	srv, _ := countingServer(t, []int{http.StatusServiceUnavailable}, "")
	cfg := testConfig()
	cfg.MaxAttempts = 4
	cfg.RetryDelay = 10 * time.Millisecond
	cfg.MaxRetryDelay = 25 * time.Millisecond
	c := New(cfg)
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	_, err := c.GetPage(context.Background(), srv.URL)

	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 25 * time.Millisecond}, slept)
}

func TestSend_CancelledContextStopsRetrying(t *testing.T) {
	srv, hits := countingServer(t, []int{http.StatusBadGateway}, "")
	c := New(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := c.GetPage(ctx, srv.URL)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestBreaker_OpensOnTransientFailuresOnly(t *testing.T) {
	srv, hits := countingServer(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusBadGateway}, "")
	cfg := testConfig()
	cfg.MaxAttempts = 1
	cfg.Breaker = config.BreakerConfig{Enabled: true, FailureThreshold: 2, Timeout: time.Minute}
	c := New(cfg)
	ctx := context.Background()

	// Permanent failures do not count against the breaker.
	for i := 0; i < 2; i++ {
		_, err := c.GetPage(ctx, srv.URL)
		require.True(t, errors.Is(err, ErrPermanent))
	}
	for i := 0; i < 2; i++ {
		_, err := c.GetPage(ctx, srv.URL)
		require.True(t, errors.Is(err, ErrUnavailable))
	}
	require.Equal(t, int32(4), atomic.LoadInt32(hits))

	_, err := c.GetPage(ctx, srv.URL)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(4), atomic.LoadInt32(hits), "open breaker must not reach the server")
}

func TestPostJSON(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tournament", r.URL.Query().Get("indexSchema"))
		json.NewDecoder(r.Body).Decode(&payload)
		io.WriteString(w, `{"total":0,"searchResults":[]}`)
	}))
	defer srv.Close()

	c := New(testConfig())
	raw, err := c.PostJSON(context.Background(), "tournamentSearch", srv.URL+"?indexSchema=tournament", map[string]any{"options": map[string]any{"size": 10}})

	require.NoError(t, err)
	assert.JSONEq(t, `{"total":0,"searchResults":[]}`, string(raw))
	assert.Equal(t, map[string]any{"size": float64(10)}, payload["options"])
}
