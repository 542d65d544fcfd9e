package application

import (
	"context"
	"log/slog"

	"github.com/bnema/dropwatch/internal/domain"
)

// HandleStreamState applies a video-playback event to the registry. A watched
// channel going offline raises the channel change signal.
func (s *WatchService) HandleStreamState(ctx context.Context, channelID int64, event domain.Event) {
	channel, ok := s.registry.Get(channelID)
	if !ok {
		slog.ErrorContext(ctx, domain.ErrUnknownChannel.Error(), "channel_id", channelID, "event", event.Type)
		return
	}

	switch event.Type {
	case domain.EventStreamDown:
		slog.InfoContext(ctx, "channel went offline", "channel", channel.Login)
		s.registry.SetOffline(channelID)
		if s.registry.IsWatching(channelID) {
			s.printf("%s goes OFFLINE, switching...\n", channel.Name())
			s.channelChange.Set()
		}
	case domain.EventStreamUp:
		s.markOnline(ctx, channel, -1)
	case domain.EventViewCount:
		if !channel.Online() {
			s.markOnline(ctx, channel, event.Viewers)
			return
		}
		s.registry.SetViewers(channelID, event.Viewers)
	default:
		slog.DebugContext(ctx, "ignoring stream event", "channel", channel.Login, "event", event.Type)
	}
}

// markOnline fetches the stream of channel and stores it. viewers below zero
// keeps the count reported by the stream lookup.
func (s *WatchService) markOnline(ctx context.Context, channel *domain.Channel, viewers int) {
	stream, err := s.api.Stream(ctx, channel.Login)
	if err != nil {
		slog.WarnContext(ctx, "fetch stream failed", "channel", channel.Login, "error", err)
		return
	}
	if stream == nil {
		slog.DebugContext(ctx, "channel reported online without a stream", "channel", channel.Login)
		return
	}
	if viewers >= 0 {
		stream.ViewerCount = viewers
	}

	s.registry.SetStream(channel.ID, stream)
	slog.InfoContext(ctx, "channel went online", "channel", channel.Login, "viewers", stream.ViewerCount)
}

// HandleDropEvent reacts to the user's drop events. A claim notification claims
// the drop and restarts the cycle so the inventory is read again.
func (s *WatchService) HandleDropEvent(ctx context.Context, event domain.Event) {
	switch event.Type {
	case domain.EventDropProgress:
		slog.InfoContext(ctx, "drop progress", "drop_id", event.DropID, "current_minutes", event.CurrentMinutes, "required_minutes", event.RequiredMinutes)
	case domain.EventDropClaim:
		if event.DropInstanceID == "" {
			slog.WarnContext(ctx, "drop claim event without instance id", "drop_id", event.DropID)
			return
		}
		if err := s.api.ClaimDrop(ctx, event.DropInstanceID); err != nil {
			slog.ErrorContext(ctx, "claim drop failed", "drop_id", event.DropID, "error", err)
		} else {
			s.metrics.DropClaimed()
			s.printf("Claimed drop: %s\n", event.DropID)
		}
		s.ReevaluateCampaigns()
	default:
		slog.DebugContext(ctx, "ignoring drop event", "event", event.Type)
	}
}
