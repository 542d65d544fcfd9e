package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
	"github.com/jonboulle/clockwork"
)

const (
	defaultWatchInterval = 58 * time.Second
	// pointsClaimEvery is the number of watch pings between bonus claims.
	pointsClaimEvery = 30
)

// Watcher runs the single heartbeat task for the watched channel.
type Watcher struct {
	api      ports.TwitchAPI
	registry *Registry
	clock    clockwork.Clock
	metrics  ports.Metrics
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(api ports.TwitchAPI, registry *Registry, clock clockwork.Clock) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Watcher{
		api:      api,
		registry: registry,
		clock:    clock,
		metrics:  ports.NopMetrics{},
		interval: defaultWatchInterval,
	}
}

func (w *Watcher) SetMetrics(metrics ports.Metrics) {
	if metrics != nil {
		w.metrics = metrics
	}
}

// Start cancels the running heartbeat, waits for it to exit and starts a new
// one for channel.
func (w *Watcher) Start(ctx context.Context, channel *domain.Channel) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
	if err := w.registry.SetWatching(channel.ID); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done
	w.metrics.WatchingChanged(channel.Login)

	go func() {
		defer close(done)
		w.run(taskCtx, channel.ID)
	}()
	return nil
}

// Stop cancels the heartbeat and clears the watched channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// Running reports whether a heartbeat task is alive.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done == nil {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

func (w *Watcher) stopLocked() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
		w.cancel = nil
		w.done = nil
	}
	if _, ok := w.registry.Watching(); ok {
		w.registry.ClearWatching()
		w.metrics.WatchingChanged("")
	}
}

func (w *Watcher) run(ctx context.Context, channelID int64) {
	for tick := 0; ; tick = (tick + 1) % pointsClaimEvery {
		channel, ok := w.registry.Get(channelID)
		if !ok {
			return
		}

		err := w.api.SendWatch(ctx, *channel)
		if ctx.Err() != nil {
			return
		}
		w.metrics.WatchPing(channel.Login, err)
		if err != nil {
			slog.WarnContext(ctx, "watch ping failed", "channel", channel.Login, "error", err)
		}

		if tick == 0 {
			w.claimPoints(ctx, channel)
		}

		if err := sleep(ctx, w.clock, w.interval); err != nil {
			return
		}
	}
}

func (w *Watcher) claimPoints(ctx context.Context, channel *domain.Channel) {
	points, err := w.api.PointsContext(ctx, channel.Login)
	if err != nil {
		if ctx.Err() == nil {
			slog.WarnContext(ctx, "fetch channel points failed", "channel", channel.Login, "error", err)
		}
		return
	}
	if points.AvailableClaimID == "" {
		return
	}

	channelID := points.ChannelID
	if channelID == 0 {
		channelID = channel.ID
	}
	if err := w.api.ClaimPoints(ctx, channelID, points.AvailableClaimID); err != nil {
		if ctx.Err() == nil {
			slog.WarnContext(ctx, "claim channel points failed", "channel", channel.Login, "error", err)
		}
		return
	}

	w.metrics.PointsClaimed(channel.Login)
	slog.InfoContext(ctx, "claimed channel points bonus", "channel", channel.Login, "balance", points.Balance)
}
