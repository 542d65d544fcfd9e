package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	deviceCodeGrantType   = "urn:ietf:params:oauth:grant-type:device_code"
	maxOAuthResponseBytes = 1 << 20

	deviceCodePath = "/oauth2/device"
	tokenPath      = "/oauth2/token"
)

var (
	ErrDeviceFlowTimeout = errors.New("timed out waiting for device authorization")
	ErrDeviceFlowDenied  = errors.New("device authorization was denied")
)

// DeviceFlowAdapter logs in through the OAuth device authorization grant of
// id.twitch.tv. The user confirms a short code on another device.
type DeviceFlowAdapter struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Clock          clockwork.Clock
}

type DeviceCodeResult struct {
	VerificationURL string
	UserCode        string
	PollInterval    time.Duration
	ExpiresIn       time.Duration
	DeviceCode      string
}

type DevicePollRequest struct {
	ClientID     string
	DeviceCode   string
	PollInterval time.Duration
	Timeout      time.Duration
}

type TokenResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	Scope        []string `json:"scope"`
	TokenType    string   `json:"token_type"`
}

type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int64  `json:"expires_in"`
	Interval        int64  `json:"interval"`
}

// oauthErrorResponse covers both the RFC error shape and the Twitch
// {"status":400,"message":"authorization_pending"} shape.
type oauthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Interval         int64  `json:"interval"`
}

func (e oauthErrorResponse) code() string {
	if e.Error != "" && e.Message != "" && strings.Contains(e.Message, "_") {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func (a DeviceFlowAdapter) RequestDeviceCode(ctx context.Context, clientID string, scopes []string) (DeviceCodeResult, error) {
	if clientID == "" {
		return DeviceCodeResult{}, errors.New("client id is required")
	}

	endpoint, err := buildAPIURL(a.baseURL(), deviceCodePath)
	if err != nil {
		return DeviceCodeResult{}, err
	}

	values := url.Values{}
	values.Set("client_id", clientID)
	values.Set("scopes", strings.Join(scopes, " "))

	requestCtx, cancel := withRequestTimeout(ctx, a.RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return DeviceCodeResult{}, fmt.Errorf("create device code request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient().Do(req)
	if err != nil {
		return DeviceCodeResult{}, fmt.Errorf("request device code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return DeviceCodeResult{}, fmt.Errorf("request device code: %s", decodeOAuthError(resp))
	}

	var payload deviceCodeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&payload); err != nil {
		return DeviceCodeResult{}, fmt.Errorf("decode device code response: %w", err)
	}
	if payload.DeviceCode == "" || payload.UserCode == "" || payload.VerificationURI == "" {
		return DeviceCodeResult{}, errors.New("device code response missing required fields")
	}

	interval := payload.Interval
	if interval <= 0 {
		interval = 5
	}

	return DeviceCodeResult{
		VerificationURL: payload.VerificationURI,
		UserCode:        payload.UserCode,
		PollInterval:    time.Duration(interval) * time.Second,
		ExpiresIn:       time.Duration(payload.ExpiresIn) * time.Second,
		DeviceCode:      payload.DeviceCode,
	}, nil
}

// PollToken polls the token endpoint until the user confirms the code, the
// request expires or ctx ends.
func (a DeviceFlowAdapter) PollToken(ctx context.Context, req DevicePollRequest) (TokenResult, error) {
	if req.ClientID == "" {
		return TokenResult{}, errors.New("client id is required")
	}
	if req.DeviceCode == "" {
		return TokenResult{}, errors.New("device code is required")
	}

	interval := req.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}

	clock := a.clock()
	deadline := clock.Now().Add(timeout)
	for {
		token, nextInterval, pending, err := a.pollTokenOnce(ctx, req.ClientID, req.DeviceCode, interval)
		if err != nil {
			return TokenResult{}, err
		}
		if !pending {
			return token, nil
		}
		interval = nextInterval

		if clock.Now().Add(interval).After(deadline) {
			return TokenResult{}, ErrDeviceFlowTimeout
		}

		timer := clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return TokenResult{}, ctx.Err()
		case <-timer.Chan():
		}
	}
}

func (a DeviceFlowAdapter) pollTokenOnce(ctx context.Context, clientID string, deviceCode string, interval time.Duration) (TokenResult, time.Duration, bool, error) {
	endpoint, err := buildAPIURL(a.baseURL(), tokenPath)
	if err != nil {
		return TokenResult{}, 0, false, err
	}

	values := url.Values{}
	values.Set("client_id", clientID)
	values.Set("device_code", deviceCode)
	values.Set("grant_type", deviceCodeGrantType)

	requestCtx, cancel := withRequestTimeout(ctx, a.RequestTimeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return TokenResult{}, 0, false, fmt.Errorf("create token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient().Do(httpReq)
	if err != nil {
		return TokenResult{}, 0, false, fmt.Errorf("request token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		var token TokenResult
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&token); err != nil {
			return TokenResult{}, 0, false, fmt.Errorf("decode token response: %w", err)
		}
		if token.AccessToken == "" {
			return TokenResult{}, 0, false, errors.New("token response missing access token")
		}
		return token, 0, false, nil
	}

	var oauthErr oauthErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&oauthErr); err != nil {
		return TokenResult{}, 0, false, fmt.Errorf("request token: status %d", resp.StatusCode)
	}

	nextInterval := interval
	if oauthErr.Interval > 0 {
		nextInterval = time.Duration(oauthErr.Interval) * time.Second
	}

	switch oauthErr.code() {
	case "authorization_pending":
		return TokenResult{}, nextInterval, true, nil
	case "slow_down":
		return TokenResult{}, nextInterval + 5*time.Second, true, nil
	case "access_denied":
		return TokenResult{}, 0, false, ErrDeviceFlowDenied
	case "expired_token":
		return TokenResult{}, 0, false, ErrDeviceFlowTimeout
	}

	return TokenResult{}, 0, false, fmt.Errorf("request token: %s", formatOAuthError(resp.StatusCode, oauthErr))
}

func (a DeviceFlowAdapter) baseURL() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return DefaultIDURL
}

func (a DeviceFlowAdapter) clock() clockwork.Clock {
	if a.Clock != nil {
		return a.Clock
	}
	return clockwork.NewRealClock()
}

func (a DeviceFlowAdapter) httpClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

func withRequestTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func decodeOAuthError(resp *http.Response) string {
	var oauthErr oauthErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&oauthErr); err != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return formatOAuthError(resp.StatusCode, oauthErr)
}

func formatOAuthError(statusCode int, oauthErr oauthErrorResponse) string {
	code := oauthErr.code()
	if code == "" {
		return fmt.Sprintf("status %d", statusCode)
	}
	if oauthErr.ErrorDescription != "" {
		return code + ": " + oauthErr.ErrorDescription
	}
	return code
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
