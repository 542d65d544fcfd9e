package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/dropwatch/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryResponse = `{"data":{"currentUser":{"inventory":{"dropCampaignsInProgress":[
{"id":"camp-1","name":"Winter Rewards","status":"ACTIVE","startAt":"2026-01-01T00:00:00Z","endAt":"2099-01-01T00:00:00Z",
 "game":{"id":"509658","name":"Just Chatting"},
 "timeBasedDrops":[{"id":"drop-1","name":"Badge","requiredMinutesWatched":60,"self":{"currentMinutesWatched":15,"isClaimed":false}}]}
]}}}}`

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"status\"")
}

func TestInvalidConfigIsReported(t *testing.T) {
	t.Setenv("DW_SESSION_MAX_LOGIN_ATTEMPTS", "0")

	_, _, err := executeCLI(t, t.TempDir(), "logout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.max_login_attempts")
}

func TestLogoutClearsStoredCookies(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeCookiesFixture(home, "stored-token"))

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed session cookies")

	data, err := os.ReadFile(filepath.Join(home, ".dropwatch", "cookies.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stored-token")
}

func TestInventoryRendersCampaigns(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeCookiesFixture(home, "stored-token"))
	server := newTwitchServer(t, "stored-token")

	t.Setenv("DW_ENDPOINTS_ID", server.URL)
	t.Setenv("DW_ENDPOINTS_GQL", server.URL+"/gql")

	stdout, _, err := executeCLI(t, home, "inventory")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Drops Inventory")
	assert.Contains(t, stdout, "Winter Rewards")
	assert.Contains(t, stdout, "(Just Chatting)")
	assert.Contains(t, stdout, "15/60 min")
}

func TestInventoryJSONOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeCookiesFixture(home, "stored-token"))
	server := newTwitchServer(t, "stored-token")

	t.Setenv("DW_ENDPOINTS_ID", server.URL)
	t.Setenv("DW_ENDPOINTS_GQL", server.URL+"/gql")

	stdout, _, err := executeCLI(t, home, "inventory", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"ID\": \"camp-1\"")
	assert.Contains(t, stdout, "\"RequiredMinutes\": 60")
}

func TestWatchExitsWhenIdle(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeCookiesFixture(home, "stored-token"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/validate":
			_, _ = fmt.Fprint(w, `{"client_id":"c","login":"viewer","user_id":"42","expires_in":3600}`)
		case "/gql":
			_, _ = fmt.Fprint(w, `{"data":{"currentUser":{"inventory":{"dropCampaignsInProgress":[]}}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("DW_ENDPOINTS_ID", server.URL)
	t.Setenv("DW_ENDPOINTS_GQL", server.URL+"/gql")

	stdout, _, err := executeCLI(t, home, "watch", "--exit-when-idle")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No active campaigns to farm drops for.")
	assert.Contains(t, stdout, "Nothing to farm, exiting.")
}

func TestLoginDeviceStoresToken(t *testing.T) {
	home := t.TempDir()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/device":
			_, _ = fmt.Fprint(w, `{"device_code":"dev-1","user_code":"ABCD-EFGH","verification_uri":"https://www.twitch.tv/activate","expires_in":1800,"interval":1}`)
		case "/oauth2/token":
			_, _ = fmt.Fprint(w, `{"access_token":"device-token","refresh_token":"r","expires_in":3600,"token_type":"bearer"}`)
		case "/oauth2/validate":
			assert.Equal(t, "OAuth device-token", r.Header.Get("Authorization"))
			_, _ = fmt.Fprint(w, `{"client_id":"c","login":"viewer","user_id":"42","expires_in":3600}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("DW_ENDPOINTS_ID", server.URL)

	stdout, _, err := executeCLI(t, home, "login", "--device")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Open https://www.twitch.tv/activate and enter the code ABCD-EFGH")
	assert.Contains(t, stdout, "Login successful, User ID: 42")

	data, err := os.ReadFile(filepath.Join(home, ".dropwatch", "cookies.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "device-token")
}

func newTwitchServer(t *testing.T, token string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/validate":
			assert.Equal(t, "OAuth "+token, r.Header.Get("Authorization"))
			_, _ = fmt.Fprint(w, `{"client_id":"c","login":"viewer","user_id":"42","expires_in":3600}`)
		case "/gql":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"operationName":"Inventory"`)
			_, _ = fmt.Fprint(w, inventoryResponse)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeCookiesFixture(home string, token string) error {
	dir := filepath.Join(home, ".dropwatch")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	cookies := fmt.Sprintf(`version = 1

[domains."twitch.tv".cookies]
auth-token = %q
persistent = "42"
`, token)

	return os.WriteFile(filepath.Join(dir, "cookies.toml"), []byte(cookies), 0o600)
}
