package cmd

import (
	"fmt"

	"github.com/bnema/dropwatch/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return err
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include commit, build time and Go version")

	return cmd
}
