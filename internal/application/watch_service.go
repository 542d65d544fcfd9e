package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	liveChannelsLimit = 100
	noChannelBackoff  = 120 * time.Second
	refreshInterval   = 500 * time.Millisecond
)

var ErrNothingToFarm = errors.New("no active campaigns to farm drops for")

type WatchOptions struct {
	// Channels pins the watch list to these logins instead of discovering
	// live channels per game.
	Channels     []string
	ExitWhenIdle bool
	Out          io.Writer
}

// WatchService decides which channel to watch. It reacts to two signals: a
// campaign change restarts the whole cycle, a channel change re-runs the
// channel selection.
type WatchService struct {
	api      ports.TwitchAPI
	bus      ports.EventBus
	identity ports.Identity
	registry *Registry
	watcher  *Watcher
	clock    clockwork.Clock
	metrics  ports.Metrics
	opts     WatchOptions

	campaignChange *latch
	channelChange  *latch

	mu    sync.RWMutex
	games domain.GameSet
}

func NewWatchService(api ports.TwitchAPI, bus ports.EventBus, identity ports.Identity, clock clockwork.Clock, opts WatchOptions) *WatchService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	registry := NewRegistry()
	return &WatchService{
		api:            api,
		bus:            bus,
		identity:       identity,
		registry:       registry,
		watcher:        NewWatcher(api, registry, clock),
		clock:          clock,
		metrics:        ports.NopMetrics{},
		opts:           opts,
		campaignChange: newLatch(),
		channelChange:  newLatch(),
		games:          domain.GameSet{},
	}
}

func (s *WatchService) SetMetrics(metrics ports.Metrics) {
	if metrics == nil {
		return
	}
	s.metrics = metrics
	s.watcher.SetMetrics(metrics)
}

func (s *WatchService) Registry() *Registry {
	return s.registry
}

// Games returns the games with earnable drops found by the last inventory scan.
func (s *WatchService) Games() domain.GameSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make(domain.GameSet, len(s.games))
	for key, game := range s.games {
		games[key] = game
	}
	return games
}

// ReevaluateCampaigns makes the running cycle restart from the inventory scan.
func (s *WatchService) ReevaluateCampaigns() {
	s.campaignChange.Set()
}

// ReevaluateChannels makes the running cycle pick a channel again.
func (s *WatchService) ReevaluateChannels() {
	s.channelChange.Set()
}

// Run drives watch cycles until ctx is done. Without any earnable drop it idles
// until ctx is done, or returns ErrNothingToFarm when ExitWhenIdle is set.
func (s *WatchService) Run(ctx context.Context) error {
	for {
		games, err := s.refreshInventory(ctx)
		if err != nil {
			return err
		}

		if len(games) == 0 {
			s.printf("No active campaigns to farm drops for.\n")
			if s.opts.ExitWhenIdle {
				return ErrNothingToFarm
			}
			<-ctx.Done()
			return nil
		}

		if err := s.bus.Start(ctx); err != nil {
			return fmt.Errorf("start event bus: %w", err)
		}
		if err := s.populate(ctx, games); err != nil {
			return err
		}
		if err := s.subscribe(); err != nil {
			return err
		}

		restart, err := s.selectLoop(ctx, games)
		if err != nil || !restart {
			return err
		}
		slog.InfoContext(ctx, "campaigns changed, restarting watch cycle")
	}
}

// Close stops the heartbeat and then the event bus.
func (s *WatchService) Close() error {
	s.watcher.Stop()
	if err := s.bus.Stop(); err != nil {
		return fmt.Errorf("stop event bus: %w", err)
	}
	return nil
}

func (s *WatchService) refreshInventory(ctx context.Context) (domain.GameSet, error) {
	s.campaignChange.Clear()

	campaigns, err := s.api.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}

	games := domain.GameSet{}
	for _, campaign := range campaigns {
		if campaign.Upcoming() {
			continue
		}
		for _, drop := range campaign.TimedDrops {
			if drop.CanEarn() {
				games.Add(campaign.Game)
			}
			if drop.CanClaim() {
				if err := s.api.ClaimDrop(ctx, drop.DropInstanceID); err != nil {
					return nil, fmt.Errorf("claim drop %s: %w", drop.Name, err)
				}
				s.metrics.DropClaimed()
				s.printf("Claimed drop: %s\n", drop.Name)
			}
		}
	}

	s.mu.Lock()
	s.games = games
	s.mu.Unlock()
	return games, nil
}

func (s *WatchService) populate(ctx context.Context, games domain.GameSet) error {
	if len(s.opts.Channels) > 0 {
		for _, login := range s.opts.Channels {
			if s.registry.HasLogin(login) {
				continue
			}
			channel, err := s.api.ChannelByLogin(ctx, login)
			if err != nil {
				return fmt.Errorf("resolve channel %s: %w", login, err)
			}
			s.registry.Add(channel)
		}
		return nil
	}

	s.printf("Fetching suitable live channels to watch...\n")
	for _, game := range games.Sorted() {
		channels, err := s.api.LiveChannels(ctx, game, liveChannelsLimit, []string{domain.DropsEnabledTag})
		if err != nil {
			return fmt.Errorf("fetch live channels for %s: %w", game.Name, err)
		}
		for _, channel := range channels {
			if !channel.Online() || !channel.Stream.DropsEnabled {
				continue
			}
			if s.registry.Add(channel) {
				s.printf("Added channel: %s for game: %s\n", channel.Name(), game.Name)
			}
		}
	}
	return nil
}

func (s *WatchService) subscribe() error {
	for _, id := range s.registry.IDs() {
		channelID := id
		topic := domain.Topic{Kind: domain.TopicVideoPlayback, Target: channelID}
		err := s.bus.Subscribe(topic, func(ctx context.Context, event domain.Event) {
			s.HandleStreamState(ctx, channelID, event)
		})
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	userID := s.identity.UserID()
	if userID == 0 {
		return nil
	}
	topic := domain.Topic{Kind: domain.TopicUserDropEvents, Target: userID}
	if err := s.bus.Subscribe(topic, s.HandleDropEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

// selectLoop reports true when the campaigns changed and the caller should
// start a new cycle.
func (s *WatchService) selectLoop(ctx context.Context, games domain.GameSet) (bool, error) {
	s.channelChange.Set()
	refresh := true

	for {
		select {
		case <-ctx.Done():
			return false, nil
		case <-s.campaignChange.Wait():
		case <-s.channelChange.Wait():
		}

		if s.campaignChange.IsSet() {
			s.watcher.Stop()
			if err := s.bus.Stop(); err != nil {
				slog.WarnContext(ctx, "stop event bus failed", "error", err)
			}
			return true, nil
		}

		// Cleared before the scan: a stream-down landing while the selection
		// runs raises it again and forces another pass.
		s.channelChange.Clear()
		if channel, ok := s.registry.FirstWatchable(games); ok {
			err := s.watch(ctx, channel)
			if errors.Is(err, domain.ErrChannelOffline) {
				slog.DebugContext(ctx, "selected channel went offline, rescanning", "channel", channel.Login)
				s.channelChange.Set()
				continue
			}
			if err != nil {
				return false, err
			}
			refresh = true
			continue
		}

		s.watcher.Stop()
		if refresh {
			s.printf("No suitable channel to watch, refreshing...\n")
			if err := s.refreshChannels(ctx); err != nil {
				if ctx.Err() != nil {
					return false, nil
				}
				return false, err
			}
			refresh = false
			continue
		}

		s.printf("No suitable channel to watch, retrying in %d seconds\n", int(noChannelBackoff/time.Second))
		if err := sleep(ctx, s.clock, noChannelBackoff); err != nil {
			return false, nil
		}
	}
}

func (s *WatchService) watch(ctx context.Context, channel *domain.Channel) error {
	if s.registry.IsWatching(channel.ID) && s.watcher.Running() {
		return nil
	}

	s.printf("Watching: %s, game: %s\n", channel.Name(), channel.GameName())
	return s.watcher.Start(ctx, channel)
}

// refreshChannels re-reads the stream of every known channel, one request at a
// time with a fixed gap between requests.
func (s *WatchService) refreshChannels(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Every(refreshInterval), 1)

	for _, id := range s.registry.IDs() {
		channel, ok := s.registry.Get(id)
		if !ok {
			continue
		}

		now := s.clock.Now()
		if err := sleep(ctx, s.clock, limiter.ReserveN(now, 1).DelayFrom(now)); err != nil {
			return err
		}

		stream, err := s.api.Stream(ctx, channel.Login)
		if err != nil {
			return fmt.Errorf("refresh stream of %s: %w", channel.Login, err)
		}
		s.registry.SetStream(id, stream)
	}
	return nil
}

func (s *WatchService) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.opts.Out, format, args...)
}

// sleep waits for d on clock. It returns ctx.Err() when ctx ends first.
func sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
