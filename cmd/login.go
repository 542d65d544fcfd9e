package cmd

import (
	"fmt"
	"time"

	authadapter "github.com/bnema/dropwatch/internal/adapters/auth"
	"github.com/spf13/cobra"
)

var deviceScopes = []string{"channel_read", "chat:read", "user_blocks_edit", "user_blocks_read", "user_follows_edit", "user_read"}

func newLoginCmd(app *app) *cobra.Command {
	var device bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log into Twitch and store the session cookies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := app.build(cmd)
			if err != nil {
				return err
			}
			defer rt.httpClient.CloseIdleConnections()

			if device {
				return runDeviceLogin(cmd, rt)
			}

			if err := rt.session.EnsureLoggedIn(cmd.Context()); err != nil {
				return fmt.Errorf("log in: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Login successful, User ID: %d\n", rt.session.UserID())
			return err
		},
	}

	cmd.Flags().BoolVar(&device, "device", false, "Log in by confirming a code on another device")

	return cmd
}

func runDeviceLogin(cmd *cobra.Command, rt *runtime) error {
	ctx := cmd.Context()
	code, err := rt.device.RequestDeviceCode(ctx, rt.cfg.ClientID, deviceScopes)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open %s and enter the code %s\n", code.VerificationURL, code.UserCode)

	timeout := code.ExpiresIn
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	token, err := rt.device.PollToken(ctx, authadapter.DevicePollRequest{
		ClientID:     rt.cfg.ClientID,
		DeviceCode:   code.DeviceCode,
		PollInterval: code.PollInterval,
		Timeout:      timeout,
	})
	if err != nil {
		return fmt.Errorf("wait for device authorization: %w", err)
	}

	if err := rt.session.AdoptToken(ctx, token.AccessToken); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Login successful, User ID: %d\n", rt.session.UserID())
	return err
}
