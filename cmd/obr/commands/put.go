package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <artifact>",
		Short: "Upload an artifact to the repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.app.Put(cmd.Context(), c.opts.Config, args[0])
			if err != nil {
				return err
			}
			return c.printer(cmd.OutOrStdout()).lines([]string{path})
		},
	}
}
