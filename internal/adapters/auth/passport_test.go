package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPassportServer(t *testing.T, handler http.HandlerFunc) PassportClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return PassportClient{
		API:        PassportAPI{PassportURL: server.URL, IDURL: server.URL},
		HTTPClient: server.Client(),
		UserAgent:  "dropwatch-test",
	}
}

func TestPassportLoginSendsPayload(t *testing.T) {
	t.Parallel()

	client := newPassportServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, loginPath, r.URL.Path)
		assert.Equal(t, "dropwatch-test", r.Header.Get("User-Agent"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "viewer", payload["username"])
		assert.Equal(t, "secret", payload["password"])
		assert.Equal(t, "client", payload["client_id"])
		assert.Equal(t, false, payload["undelete_user"])
		assert.Equal(t, true, payload["remember_me"])
		assert.Equal(t, map[string]any{"proof": "proof-1"}, payload["captcha"])
		assert.Equal(t, "123456", payload["authy_token"])
		assert.NotContains(t, payload, "twitchguard_code")

		_, _ = w.Write([]byte(`{"access_token":"token-1"}`))
	})

	resp, err := client.Login(context.Background(), domain.LoginRequest{
		Username:     "viewer",
		Password:     "secret",
		ClientID:     "client",
		RememberMe:   true,
		CaptchaProof: "proof-1",
		AuthyToken:   "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-1", resp.AccessToken)
	assert.False(t, resp.Failed())
}

func TestPassportLoginReturnsErrorCodes(t *testing.T) {
	t.Parallel()

	client := newPassportServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"captcha_proof":"proof-2","error_code":3011,"error":"missing authy token","error_description":"2fa"}`))
	})

	resp, err := client.Login(context.Background(), domain.LoginRequest{Username: "viewer", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, resp.Failed())
	assert.Equal(t, domain.LoginCodeAuthyTokenNeeded, resp.ErrorCode)
	assert.Equal(t, "proof-2", resp.CaptchaProof)
	assert.Equal(t, "missing authy token", resp.Error)
}

func TestPassportValidate(t *testing.T) {
	t.Parallel()

	client := newPassportServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, validatePath, r.URL.Path)
		switch r.Header.Get("Authorization") {
		case "OAuth good":
			_, _ = w.Write([]byte(`{"client_id":"client","login":"viewer","user_id":"12345","expires_in":5000}`))
		case "OAuth broken":
			_, _ = w.Write([]byte(`{"login":"viewer","user_id":"nope"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":401,"message":"invalid access token"}`))
		}
	})

	validation, err := client.Validate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, domain.TokenValidation{ClientID: "client", Login: "viewer", UserID: 12345, ExpiresIn: 5000}, validation)

	_, err = client.Validate(context.Background(), "expired")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = client.Validate(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = client.Validate(context.Background(), "broken")
	require.ErrorContains(t, err, "invalid user id")
}

func TestPassportValidatePassword(t *testing.T) {
	t.Parallel()

	client := newPassportServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, passwordStrengthPath, r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		valid := len(payload["password"]) >= 8
		_ = json.NewEncoder(w).Encode(map[string]bool{"isValid": valid})
	})

	valid, err := client.ValidatePassword(context.Background(), "short")
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = client.ValidatePassword(context.Background(), "long enough")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestPassportServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	client := newPassportServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Login(context.Background(), domain.LoginRequest{Username: "viewer"})
	require.ErrorContains(t, err, "status 503")

	_, err = client.ValidatePassword(context.Background(), "whatever")
	require.ErrorContains(t, err, "status 503")
}
