package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/dropwatch/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dropwatch"

var _ ports.Metrics = (*Recorder)(nil)

// Recorder exports watch activity on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	WatchPings         *prometheus.CounterVec
	PointsClaims       *prometheus.CounterVec
	DropClaims         prometheus.Counter
	Watching           *prometheus.GaugeVec
	TokenInvalidations prometheus.Counter
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		// WatchPings counts minute-watched reports by channel and result
		WatchPings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "watch_pings_total",
				Help:      "Minute-watched reports sent by channel and result (success/error)",
			},
			[]string{"channel", "result"},
		),
		PointsClaims: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "points_claims_total",
				Help:      "Channel points bonuses claimed by channel",
			},
			[]string{"channel"},
		),
		DropClaims: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "drop_claims_total",
				Help:      "Drop rewards claimed",
			},
		),
		// Watching is 1 for the channel currently watched, 0 for the ones watched before
		Watching: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "watching",
				Help:      "1 for the channel currently being watched",
			},
			[]string{"channel"},
		),
		TokenInvalidations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_invalidations_total",
				Help:      "Access tokens rejected by the validation endpoint",
			},
		),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) WatchPing(channel string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.WatchPings.WithLabelValues(channel, result).Inc()
}

func (r *Recorder) PointsClaimed(channel string) {
	r.PointsClaims.WithLabelValues(channel).Inc()
}

func (r *Recorder) DropClaimed() {
	r.DropClaims.Inc()
}

// WatchingChanged moves the gauge to channel; an empty channel means nothing is watched.
func (r *Recorder) WatchingChanged(channel string) {
	r.Watching.Reset()
	if channel != "" {
		r.Watching.WithLabelValues(channel).Set(1)
	}
}

func (r *Recorder) TokenInvalidated() {
	r.TokenInvalidations.Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx ends.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	slog.InfoContext(ctx, "metrics listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
