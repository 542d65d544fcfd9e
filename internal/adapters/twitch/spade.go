package twitch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/dropwatch/internal/domain"
)

const maxPageBytes = 4 << 20

var (
	settingsURLPattern = regexp.MustCompile(`"(https?://[^"]+/config/settings\.[^"]*\.js)"`)
	spadeURLPattern    = regexp.MustCompile(`"spade_url":"([^"]+)"`)
)

// SendWatch reports one minute of watch time for channel. The analytics
// endpoint is scraped from the channel page once and reused.
func (c *Client) SendWatch(ctx context.Context, channel domain.Channel) error {
	if channel.Stream == nil {
		return fmt.Errorf("send watch for %s: channel is offline", channel.Login)
	}

	spadeURL, err := c.spadeEndpoint(ctx, channel.Login)
	if err != nil {
		return fmt.Errorf("send watch for %s: %w", channel.Login, err)
	}

	payload, err := minuteWatchedPayload(channel, c.identity.UserID())
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("data", payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, spadeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create watch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setUserAgent(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send watch for %s: %w", channel.Login, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		c.forgetSpadeURL()
		return fmt.Errorf("send watch for %s: status %d", channel.Login, resp.StatusCode)
	}
	slog.DebugContext(ctx, "minute watched sent", "channel", channel.Login)
	return nil
}

func minuteWatchedPayload(channel domain.Channel, userID int64) (string, error) {
	event := []map[string]any{{
		"event": "minute-watched",
		"properties": map[string]any{
			"channel_id":   strconv.FormatInt(channel.ID, 10),
			"broadcast_id": channel.Stream.BroadcastID,
			"player":       "site",
			"user_id":      userID,
		},
	}}
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encode minute watched event: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (c *Client) spadeEndpoint(ctx context.Context, login string) (string, error) {
	c.spadeMu.Lock()
	defer c.spadeMu.Unlock()
	if c.spadeURL != "" {
		return c.spadeURL, nil
	}

	page, err := c.fetchPage(ctx, strings.TrimRight(c.webURL, "/")+"/"+url.PathEscape(login))
	if err != nil {
		return "", fmt.Errorf("fetch channel page: %w", err)
	}
	match := settingsURLPattern.FindSubmatch(page)
	if match == nil {
		return "", errors.New("settings script not found on channel page")
	}

	settings, err := c.fetchPage(ctx, string(match[1]))
	if err != nil {
		return "", fmt.Errorf("fetch settings script: %w", err)
	}
	match = spadeURLPattern.FindSubmatch(settings)
	if match == nil {
		return "", errors.New("spade url not found in settings script")
	}

	c.spadeURL = string(match[1])
	return c.spadeURL, nil
}

func (c *Client) forgetSpadeURL() {
	c.spadeMu.Lock()
	c.spadeURL = ""
	c.spadeMu.Unlock()
}

func (c *Client) fetchPage(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	c.setUserAgent(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
