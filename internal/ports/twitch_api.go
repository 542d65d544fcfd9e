package ports

import (
	"context"

	"github.com/bnema/dropwatch/internal/domain"
)

type TwitchAPI interface {
	Inventory(ctx context.Context) ([]domain.DropsCampaign, error)
	ClaimDrop(ctx context.Context, dropInstanceID string) error
	LiveChannels(ctx context.Context, game domain.Game, limit int, tagIDs []string) ([]*domain.Channel, error)
	ChannelByLogin(ctx context.Context, login string) (*domain.Channel, error)
	// Stream returns nil when the channel is offline.
	Stream(ctx context.Context, login string) (*domain.Stream, error)
	SendWatch(ctx context.Context, channel domain.Channel) error
	PointsContext(ctx context.Context, login string) (domain.PointsContext, error)
	ClaimPoints(ctx context.Context, channelID int64, claimID string) error
}

type Identity interface {
	UserID() int64
}
