package gql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/platform/retry"
	"github.com/bnema/dropwatch/internal/ports"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	DefaultURL = "https://gql.twitch.tv/gql"

	defaultRequestTimeout = 30 * time.Second
	maxResponseBytes      = 8 << 20
)

var _ ports.Gateway = (*Client)(nil)

// errTransient marks failures worth another attempt (5xx, transport errors).
var errTransient = errors.New("transient gql failure")

type Options struct {
	URL               string
	ClientID          string
	UserAgent         string
	RequestsPerSecond float64
	HTTPClient        *http.Client
	RequestTimeout    time.Duration
	Retry             retry.Policy
}

// Client posts persisted-query operations to the Twitch GQL endpoint.
type Client struct {
	url            string
	clientID       string
	userAgent      string
	httpClient     *http.Client
	requestTimeout time.Duration
	limiter        *rate.Limiter
	retry          retry.Policy
}

func New(opts Options) *Client {
	url := opts.URL
	if url == "" {
		url = DefaultURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	policy := opts.Retry
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 3
	}
	if policy.InitialBackoff == 0 {
		policy.InitialBackoff = time.Second
	}
	if policy.Clock == nil {
		policy.Clock = clockwork.NewRealClock()
	}

	return &Client{
		url:            url,
		clientID:       opts.ClientID,
		userAgent:      opts.UserAgent,
		httpClient:     httpClient,
		requestTimeout: timeout,
		limiter:        rate.NewLimiter(limit, burst),
		retry:          policy,
	}
}

type persistedQuery struct {
	Version    int    `json:"version"`
	SHA256Hash string `json:"sha256Hash"`
}

type requestBody struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    struct {
		PersistedQuery persistedQuery `json:"persistedQuery"`
	} `json:"extensions"`
}

type responseBody struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute runs op with token and decodes the "data" member into out. A nil out
// discards the payload.
func (c *Client) Execute(ctx context.Context, token string, op domain.Operation, out any) error {
	body := requestBody{OperationName: op.Name, Variables: op.Variables}
	body.Extensions.PersistedQuery = persistedQuery{Version: 1, SHA256Hash: op.Hash}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s: %w", op.Name, err)
	}

	policy := c.retry
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.WarnContext(ctx, "gql request failed, retrying", "operation", op.Name, "attempt", attempt, "backoff", backoff, "error", err)
	}

	data, err := retry.Do(ctx, policy, classify, func() (json.RawMessage, error) {
		return c.post(ctx, token, op.Name, payload)
	})
	if err != nil {
		var permanent *retry.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", op.Name, err)
	}
	return nil
}

func classify(err error) retry.Action {
	if errors.Is(err, errTransient) {
		return retry.Retry
	}
	return retry.Stop
}

func (c *Client) post(ctx context.Context, token string, name string, payload []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gql rate limit: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", c.clientID)
	if token != "" {
		req.Header.Set("Authorization", "OAuth "+token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	slog.DebugContext(ctx, "gql request", "operation", name)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", errTransient, name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %s: status %d", errTransient, name, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("gql %s: status %d", name, resp.StatusCode)
	}

	var envelope responseBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", name, err)
	}
	if len(envelope.Errors) > 0 {
		opErr := &domain.OperationError{Operation: name}
		for _, e := range envelope.Errors {
			opErr.Messages = append(opErr.Messages, e.Message)
		}
		return nil, opErr
	}
	slog.DebugContext(ctx, "gql response", "operation", name, "bytes", len(envelope.Data))
	return envelope.Data, nil
}
