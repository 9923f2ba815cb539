package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every downloaded index and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.CleanCache(cmd.Context(), c.opts.Config); err != nil {
				return err
			}
			return c.printer(cmd.OutOrStdout()).done("cache cleaned")
		},
	})
	return cmd
}
