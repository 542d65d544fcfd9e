package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/dropwatch/internal/application"
	"github.com/bnema/dropwatch/internal/config"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch live channels and farm drops until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, app)
		},
	}

	cmd.Flags().StringSlice("channel", nil, "Watch only these channel logins (repeatable or comma separated)")
	cmd.Flags().Bool("exit-when-idle", false, "Exit instead of idling when no campaign has earnable drops")
	_ = app.v.BindPFlag(config.KeyChannels, cmd.Flags().Lookup("channel"))
	_ = app.v.BindPFlag(config.KeyExitWhenIdle, cmd.Flags().Lookup("exit-when-idle"))

	return cmd
}

func runWatch(cmd *cobra.Command, app *app) (err error) {
	ctx := cmd.Context()
	rt, err := app.build(cmd)
	if err != nil {
		return err
	}

	watch := application.NewWatchService(rt.twitch, rt.bus, rt.session, app.clock, application.WatchOptions{
		Channels:     rt.cfg.Channels,
		ExitWhenIdle: rt.cfg.ExitWhenIdle,
		Out:          cmd.OutOrStdout(),
	})
	watch.SetMetrics(rt.metrics)

	defer func() {
		closeCtx := context.WithoutCancel(ctx)
		err = errors.Join(err, watch.Close(), rt.close(closeCtx))
	}()

	if rt.cfg.MetricsListen != "" {
		go func() {
			if serveErr := rt.metrics.Serve(ctx, rt.cfg.MetricsListen); serveErr != nil {
				slog.Error("metrics server stopped", "error", serveErr)
			}
		}()
	}

	if err := rt.session.EnsureLoggedIn(ctx); err != nil {
		return ignoreCancel(ctx, fmt.Errorf("log in: %w", err))
	}

	err = watch.Run(ctx)
	if errors.Is(err, application.ErrNothingToFarm) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to farm, exiting.")
		return nil
	}
	return ignoreCancel(ctx, err)
}

// ignoreCancel treats an interrupt as a clean shutdown.
func ignoreCancel(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
