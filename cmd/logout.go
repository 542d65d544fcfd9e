package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Twitch session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := app.build(cmd)
			if err != nil {
				return err
			}
			if err := rt.session.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed session cookies from %s\n", rt.jar.Path())
			return err
		},
	}
}
