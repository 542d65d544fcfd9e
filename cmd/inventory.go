package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	inventoryadapter "github.com/bnema/dropwatch/internal/adapters/render/inventory"
	"github.com/bnema/dropwatch/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newInventoryCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show drop campaigns in progress and their progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := app.build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(context.WithoutCancel(cmd.Context())) }()

			var campaigns []domain.DropsCampaign
			fetch := func(ctx context.Context) error {
				var err error
				campaigns, err = rt.twitch.Inventory(ctx)
				return err
			}
			if err := rt.session.EnsureLoggedIn(cmd.Context()); err != nil {
				return fmt.Errorf("log in: %w", err)
			}
			if isTerminal(cmd.ErrOrStderr()) && !asJSON {
				err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching drops inventory...", fetch)
			} else {
				err = fetch(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("fetch inventory: %w", err)
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(campaigns)
			}

			rendered, err := app.inventoryRender(campaigns, inventoryadapter.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render inventory: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print campaigns as JSON")

	return cmd
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
