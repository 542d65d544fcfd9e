package gql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/platform/retry"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOp = domain.Operation{
	Name:      "ChannelPointsContext",
	Hash:      "abc123",
	Variables: map[string]any{"channelLogin": "alpha"},
}

func TestExecuteSendsPersistedQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "client-1", r.Header.Get("Client-Id"))
		assert.Equal(t, "OAuth token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "dw-test", r.Header.Get("User-Agent"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ChannelPointsContext", body["operationName"])
		assert.Equal(t, map[string]any{"channelLogin": "alpha"}, body["variables"])
		assert.Equal(t, map[string]any{
			"persistedQuery": map[string]any{"version": float64(1), "sha256Hash": "abc123"},
		}, body["extensions"])

		_, _ = w.Write([]byte(`{"data":{"community":{"id":"42"}}}`))
	}))
	t.Cleanup(server.Close)

	client := New(Options{URL: server.URL, ClientID: "client-1", UserAgent: "dw-test", HTTPClient: server.Client()})

	var out struct {
		Community struct {
			ID string `json:"id"`
		} `json:"community"`
	}
	require.NoError(t, client.Execute(context.Background(), "token-1", testOp, &out))
	assert.Equal(t, "42", out.Community.ID)
}

func TestExecuteMapsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":"Unauthorized"}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, domain.ErrUnauthorized)
			},
		},
		{
			name:   "errors envelope",
			status: http.StatusOK,
			body:   `{"errors":[{"message":"service timeout"},{"message":"failed integrity check"}]}`,
			check: func(t *testing.T, err error) {
				var opErr *domain.OperationError
				require.ErrorAs(t, err, &opErr)
				assert.Equal(t, "ChannelPointsContext", opErr.Operation)
				assert.Equal(t, []string{"service timeout", "failed integrity check"}, opErr.Messages)
			},
		},
		{
			name:   "client error",
			status: http.StatusBadRequest,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "status 400")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			client := New(Options{URL: server.URL, HTTPClient: server.Client()})
			err := client.Execute(context.Background(), "token", testOp, nil)
			tt.check(t, err)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestExecuteRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	t.Cleanup(server.Close)

	clock := clockwork.NewFakeClock()
	client := New(Options{
		URL:        server.URL,
		HTTPClient: server.Client(),
		Retry:      retry.Policy{MaxAttempts: 3, InitialBackoff: 2 * time.Second, Clock: clock},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- client.Execute(ctx, "token", testOp, nil)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Second)

	require.NoError(t, <-done)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExecuteGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := New(Options{
		URL:        server.URL,
		HTTPClient: server.Client(),
		Retry:      retry.Policy{MaxAttempts: 1, InitialBackoff: time.Second},
	})

	err := client.Execute(context.Background(), "token", testOp, nil)
	require.ErrorContains(t, err, "failed after 1 attempts")
	require.ErrorContains(t, err, "status 503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestExecuteOmitsAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	t.Cleanup(server.Close)

	client := New(Options{URL: server.URL, HTTPClient: server.Client(), RequestsPerSecond: 20})
	var out map[string]any
	require.NoError(t, client.Execute(context.Background(), "", testOp, &out))
	assert.Nil(t, out)
}
