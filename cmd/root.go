package cmd

import (
	"context"

	"github.com/bnema/dropwatch/internal/config"
	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dw",
		Short:         "dropwatch (dw): farm Twitch drops unattended",
		Long:          "dw logs into Twitch, picks a live channel streaming a game with an active drop campaign and keeps watching it, switching channels as streams go up and down and claiming drops and channel points along the way.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	_ = app.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = app.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newWatchCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newInventoryCmd(app),
	)

	return rootCmd
}
