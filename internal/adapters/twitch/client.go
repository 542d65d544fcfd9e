package twitch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
)

const DefaultWebURL = "https://www.twitch.tv"

var _ ports.TwitchAPI = (*Client)(nil)

type Options struct {
	WebURL     string
	UserAgent  string
	HTTPClient *http.Client
}

// Client maps the logical Twitch operations onto GQL persisted queries and
// the spade analytics endpoint.
type Client struct {
	exec       ports.Executor
	identity   ports.Identity
	webURL     string
	userAgent  string
	httpClient *http.Client

	spadeMu  sync.Mutex
	spadeURL string
}

func NewClient(exec ports.Executor, identity ports.Identity, opts Options) *Client {
	webURL := opts.WebURL
	if webURL == "" {
		webURL = DefaultWebURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		exec:       exec,
		identity:   identity,
		webURL:     webURL,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
	}
}

func (c *Client) Inventory(ctx context.Context) ([]domain.DropsCampaign, error) {
	var data inventoryData
	if err := c.exec.Execute(ctx, opInventory, &data); err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	if data.CurrentUser == nil {
		return nil, fmt.Errorf("fetch inventory: %w", domain.ErrUnauthorized)
	}

	raw := data.CurrentUser.Inventory.DropCampaignsInProgress
	campaigns := make([]domain.DropsCampaign, 0, len(raw))
	for _, item := range raw {
		campaign := domain.DropsCampaign{
			ID:       item.ID,
			Name:     item.Name,
			Status:   item.Status,
			StartsAt: parseTime(item.StartAt),
			EndsAt:   parseTime(item.EndAt),
		}
		if game := item.Game.toDomain(); game != nil {
			campaign.Game = *game
		}
		for _, drop := range item.TimeBasedDrops {
			timed := domain.TimedDrop{
				ID:              drop.ID,
				Name:            drop.Name,
				RequiredMinutes: drop.RequiredMinutesWatched,
			}
			if drop.Self != nil {
				timed.CurrentMinutes = drop.Self.CurrentMinutesWatched
				timed.IsClaimed = drop.Self.IsClaimed
				timed.DropInstanceID = drop.Self.DropInstanceID
			}
			campaign.TimedDrops = append(campaign.TimedDrops, timed)
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

func (c *Client) ClaimDrop(ctx context.Context, dropInstanceID string) error {
	op := opClaimDrop.WithVariables(map[string]any{
		"input": map[string]any{"dropInstanceID": dropInstanceID},
	})
	var data claimDropData
	if err := c.exec.Execute(ctx, op, &data); err != nil {
		return fmt.Errorf("claim drop %s: %w", dropInstanceID, err)
	}
	if data.ClaimDropRewards != nil {
		slog.DebugContext(ctx, "drop claim answered", "drop_instance_id", dropInstanceID, "status", data.ClaimDropRewards.Status)
	}
	return nil
}

func (c *Client) LiveChannels(ctx context.Context, game domain.Game, limit int, tagIDs []string) ([]*domain.Channel, error) {
	if tagIDs == nil {
		tagIDs = []string{}
	}
	op := opGameDirectory.WithVariables(map[string]any{
		"limit": limit,
		"name":  game.Name,
		"options": map[string]any{
			"includeRestricted": []string{"SUB_ONLY_LIVE"},
			"tags":              tagIDs,
		},
	})

	var data directoryData
	if err := c.exec.Execute(ctx, op, &data); err != nil {
		return nil, fmt.Errorf("list live channels for %s: %w", game.Name, err)
	}
	if data.Game == nil {
		return nil, nil
	}

	channels := make([]*domain.Channel, 0, len(data.Game.Streams.Edges))
	for _, edge := range data.Game.Streams.Edges {
		node := edge.Node
		if node.Broadcaster == nil {
			continue
		}
		id, err := strconv.ParseInt(node.Broadcaster.ID, 10, 64)
		if err != nil {
			slog.WarnContext(ctx, "skipping directory entry with bad channel id", "id", node.Broadcaster.ID)
			continue
		}
		streamGame := node.Game.toDomain()
		if streamGame == nil {
			streamGame = &domain.Game{ID: game.ID, Name: game.Name}
		}
		channels = append(channels, &domain.Channel{
			ID:          id,
			Login:       node.Broadcaster.Login,
			DisplayName: node.Broadcaster.DisplayName,
			Stream: &domain.Stream{
				BroadcastID:  node.ID,
				Title:        node.Title,
				Game:         streamGame,
				ViewerCount:  node.ViewersCount,
				DropsEnabled: hasDropsTag(node.Tags),
			},
		})
	}
	return channels, nil
}

func (c *Client) ChannelByLogin(ctx context.Context, login string) (*domain.Channel, error) {
	data, err := c.streamInfo(ctx, login)
	if err != nil {
		return nil, err
	}
	user := data.User
	id, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("channel %s has bad id %q", login, user.ID)
	}
	return &domain.Channel{
		ID:          id,
		Login:       user.Login,
		DisplayName: user.DisplayName,
		Stream:      streamFromInfo(data),
	}, nil
}

func (c *Client) Stream(ctx context.Context, login string) (*domain.Stream, error) {
	data, err := c.streamInfo(ctx, login)
	if err != nil {
		return nil, err
	}
	return streamFromInfo(data), nil
}

func (c *Client) streamInfo(ctx context.Context, login string) (streamInfoData, error) {
	op := opStreamInfo.WithVariables(map[string]any{"channel": login})
	var data streamInfoData
	if err := c.exec.Execute(ctx, op, &data); err != nil {
		return streamInfoData{}, fmt.Errorf("fetch stream info for %s: %w", login, err)
	}
	if data.User == nil {
		return streamInfoData{}, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, login)
	}
	return data, nil
}

func streamFromInfo(data streamInfoData) *domain.Stream {
	user := data.User
	if user == nil || user.Stream == nil {
		return nil
	}
	return &domain.Stream{
		BroadcastID:  user.Stream.ID,
		Title:        user.BroadcastSettings.Title,
		Game:         user.BroadcastSettings.Game.toDomain(),
		ViewerCount:  user.Stream.ViewersCount,
		DropsEnabled: hasDropsTag(user.Stream.Tags),
	}
}

func (c *Client) PointsContext(ctx context.Context, login string) (domain.PointsContext, error) {
	op := opPointsContext.WithVariables(map[string]any{"channelLogin": login})
	var data pointsContextData
	if err := c.exec.Execute(ctx, op, &data); err != nil {
		return domain.PointsContext{}, fmt.Errorf("fetch points context for %s: %w", login, err)
	}
	if data.Community == nil || data.Community.Channel == nil {
		return domain.PointsContext{}, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, login)
	}

	channel := data.Community.Channel
	id, err := strconv.ParseInt(channel.ID, 10, 64)
	if err != nil {
		id, err = strconv.ParseInt(data.Community.ID, 10, 64)
		if err != nil {
			return domain.PointsContext{}, fmt.Errorf("points context for %s has bad channel id %q", login, channel.ID)
		}
	}
	points := channel.Self.CommunityPoints
	result := domain.PointsContext{ChannelID: id, Balance: points.Balance}
	if points.AvailableClaim != nil {
		result.AvailableClaimID = points.AvailableClaim.ID
	}
	return result, nil
}

func (c *Client) ClaimPoints(ctx context.Context, channelID int64, claimID string) error {
	op := opClaimPoints.WithVariables(map[string]any{
		"input": map[string]any{
			"channelID": strconv.FormatInt(channelID, 10),
			"claimID":   claimID,
		},
	})
	if err := c.exec.Execute(ctx, op, nil); err != nil {
		return fmt.Errorf("claim points on %d: %w", channelID, err)
	}
	return nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
