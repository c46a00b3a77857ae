package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return client
}

// recordingLogger counts Debugf/Infof/Errorf calls so retry logging
// can be asserted without capturing output.
type recordingLogger struct {
	calls int32
	last  string
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) { l.record(format, args...) }
func (l *recordingLogger) Infof(format string, args ...interface{})  { l.record(format, args...) }
func (l *recordingLogger) Errorf(format string, args ...interface{}) { l.record(format, args...) }
func (l *recordingLogger) record(format string, args ...interface{}) {
	atomic.AddInt32(&l.calls, 1)
	l.last = fmt.Sprintf(format, args...)
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("http://chem.example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://chem.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "chemalyzer-go-sdk/")
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, bad := range []string{"", "ftp://chem.example.com", "not-a-url"} {
		_, err := NewClient(bad)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam),
			"base URL %q should be rejected", bad)
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("http://chem.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://chem.example.com", c.baseURL)
}

func TestOptionWiring(t *testing.T) {
	customClient := &http.Client{Timeout: 10 * time.Second}
	logger := &recordingLogger{}
	c, err := NewClient("http://chem.example.com",
		WithHTTPClient(customClient),
		WithLogger(logger),
		WithRetryMax(5),
		WithUserAgent("lab-pipeline/2.1"),
	)
	require.NoError(t, err)
	assert.Equal(t, customClient, c.httpClient)
	assert.Equal(t, logger, c.logger)
	assert.Equal(t, 5, c.retryMax)
	assert.Equal(t, "lab-pipeline/2.1", c.userAgent)
}

func TestWithTimeout(t *testing.T) {
	c, err := NewClient("http://chem.example.com", WithTimeout(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, c.httpClient.Timeout)
}

func TestGetDecodesPayload(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": "ok"}`))
	}
	c := newTestClient(t, handler)

	var resp struct {
		Value string `json:"value"`
	}
	err := c.get(context.Background(), "/api/health", &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Value)
}

func TestRequestCarriesStandardHeaders(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "chemalyzer-go-sdk/")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	}
	c := newTestClient(t, handler)
	require.NoError(t, c.get(context.Background(), "/api/health", nil))
}

func TestRequestIDsDiffer(t *testing.T) {
	ids := make(chan string, 2)
	handler := func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	}
	c := newTestClient(t, handler)
	require.NoError(t, c.get(context.Background(), "/api/health", nil))
	require.NoError(t, c.get(context.Background(), "/api/health", nil))
	close(ids)

	assert.NotEqual(t, <-ids, <-ids)
}

func TestErrorEnvelopeParsing(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Could not identify compound","suggestions":["aspirin","asparagine"]}`))
	}
	c := newTestClient(t, handler)

	err := c.get(context.Background(), "/api/health", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Could not identify compound", apiErr.Message)
	assert.Equal(t, []string{"aspirin", "asparagine"}, apiErr.Suggestions)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.True(t, apiErr.IsNotFound())
}

func TestPlainTextErrorBody(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}
	c := newTestClient(t, handler, WithRetryMax(0))

	err := c.get(context.Background(), "/api/health", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"bad input"}`))
	}
	c := newTestClient(t, handler)

	err := c.get(context.Background(), "/api/health", nil)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
	c := newTestClient(t, handler, WithRetryWait(time.Millisecond, 2*time.Millisecond))

	err := c.get(context.Background(), "/api/health", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryBudgetExhausted(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}
	c := newTestClient(t, handler,
		WithRetryMax(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))

	err := c.get(context.Background(), "/api/health", nil)
	assert.Error(t, err)
	// 1 initial + 2 retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c, err := NewClient(server.URL,
		WithRetryMax(1), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	assert.Error(t, c.get(context.Background(), "/api/health", nil))
}

func TestContextCancellation(t *testing.T) {
	t.Run("already canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		err := c.get(ctx, "/api/health", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("deadline during request", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}
		c := newTestClient(t, handler)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := c.get(ctx, "/api/health", nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestAPIErrorClassification(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
	assert.True(t, (&APIError{StatusCode: 400}).IsInvalidInput())
	assert.True(t, (&APIError{StatusCode: 422}).IsUnprocessable())
	assert.True(t, (&APIError{StatusCode: 500}).IsServerError())
	assert.True(t, (&APIError{StatusCode: 503}).IsServerError())
	assert.False(t, (&APIError{StatusCode: 400}).IsServerError())
}

func TestAPIErrorMessage(t *testing.T) {
	full := &APIError{StatusCode: 404, Message: "not found", RequestID: "abc"}
	assert.Equal(t, "chemalyzer: HTTP 404: not found [request_id=abc]", full.Error())

	envelopeOnly := &APIError{Message: "malformed response"}
	assert.Equal(t, "chemalyzer: malformed response", envelopeOnly.Error())
}
