package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
)

const (
	DefaultPassportURL = "https://passport.twitch.tv"
	DefaultIDURL       = "https://id.twitch.tv"

	loginPath            = "/login"
	passwordStrengthPath = "/api/v1/password_strength"
	validatePath         = "/oauth2/validate"
)

type PassportAPI struct {
	PassportURL string
	IDURL       string
}

// PassportClient talks to the Twitch passport and id services.
type PassportClient struct {
	API            PassportAPI
	HTTPClient     *http.Client
	UserAgent      string
	RequestTimeout time.Duration
}

var _ ports.AuthClient = PassportClient{}

type loginPayload struct {
	Username        string          `json:"username"`
	Password        string          `json:"password"`
	ClientID        string          `json:"client_id"`
	UndeleteUser    bool            `json:"undelete_user"`
	RememberMe      bool            `json:"remember_me"`
	Captcha         *captchaPayload `json:"captcha,omitempty"`
	AuthyToken      string          `json:"authy_token,omitempty"`
	TwitchGuardCode string          `json:"twitchguard_code,omitempty"`
}

type captchaPayload struct {
	Proof string `json:"proof"`
}

type loginResponse struct {
	AccessToken      string `json:"access_token"`
	CaptchaProof     string `json:"captcha_proof"`
	ErrorCode        int    `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type validateResponse struct {
	ClientID  string `json:"client_id"`
	Login     string `json:"login"`
	UserID    string `json:"user_id"`
	ExpiresIn int64  `json:"expires_in"`
}

// Login submits one login attempt. Error codes in the body are returned on the
// response, not as an error, so the caller can drive the retry loop.
func (c PassportClient) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	endpoint, err := buildAPIURL(c.passportURL(), loginPath)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	payload := loginPayload{
		Username:        req.Username,
		Password:        req.Password,
		ClientID:        req.ClientID,
		UndeleteUser:    req.UndeleteUser,
		RememberMe:      req.RememberMe,
		AuthyToken:      req.AuthyToken,
		TwitchGuardCode: req.TwitchGuardCode,
	}
	if req.CaptchaProof != "" {
		payload.Captcha = &captchaPayload{Proof: req.CaptchaProof}
	}

	var body loginResponse
	status, err := c.postJSON(ctx, endpoint, payload, &body)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("login request: %w", err)
	}
	if status >= http.StatusInternalServerError {
		return domain.LoginResponse{}, fmt.Errorf("login request: status %d", status)
	}

	return domain.LoginResponse{
		AccessToken:      body.AccessToken,
		CaptchaProof:     body.CaptchaProof,
		ErrorCode:        body.ErrorCode,
		Error:            body.Error,
		ErrorDescription: body.ErrorDescription,
	}, nil
}

func (c PassportClient) Validate(ctx context.Context, token string) (domain.TokenValidation, error) {
	if token == "" {
		return domain.TokenValidation{}, domain.ErrUnauthorized
	}

	endpoint, err := buildAPIURL(c.idURL(), validatePath)
	if err != nil {
		return domain.TokenValidation{}, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.TokenValidation{}, fmt.Errorf("create validate request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+token)
	c.setUserAgent(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.TokenValidation{}, fmt.Errorf("validate token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.TokenValidation{}, domain.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return domain.TokenValidation{}, fmt.Errorf("validate token: status %d", resp.StatusCode)
	}

	var payload validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&payload); err != nil {
		return domain.TokenValidation{}, fmt.Errorf("decode validate response: %w", err)
	}
	userID, err := strconv.ParseInt(payload.UserID, 10, 64)
	if err != nil || userID == 0 {
		return domain.TokenValidation{}, fmt.Errorf("validate response has invalid user id %q", payload.UserID)
	}

	return domain.TokenValidation{
		ClientID:  payload.ClientID,
		Login:     payload.Login,
		UserID:    userID,
		ExpiresIn: payload.ExpiresIn,
	}, nil
}

// ValidatePassword runs the server-side strength check (length and allowed
// characters) before a login is attempted.
func (c PassportClient) ValidatePassword(ctx context.Context, password string) (bool, error) {
	endpoint, err := buildAPIURL(c.passportURL(), passwordStrengthPath)
	if err != nil {
		return false, err
	}

	var body struct {
		IsValid bool `json:"isValid"`
	}
	status, err := c.postJSON(ctx, endpoint, map[string]string{"password": password}, &body)
	if err != nil {
		return false, fmt.Errorf("password strength request: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return false, fmt.Errorf("password strength request: status %d", status)
	}
	return body.IsValid, nil
}

func (c PassportClient) postJSON(ctx context.Context, endpoint string, payload any, out any) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setUserAgent(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func (c PassportClient) passportURL() string {
	if c.API.PassportURL != "" {
		return c.API.PassportURL
	}
	return DefaultPassportURL
}

func (c PassportClient) idURL() string {
	if c.API.IDURL != "" {
		return c.API.IDURL
	}
	return DefaultIDURL
}

func (c PassportClient) setUserAgent(req *http.Request) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}

func (c PassportClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c PassportClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withRequestTimeout(ctx, c.RequestTimeout)
}
