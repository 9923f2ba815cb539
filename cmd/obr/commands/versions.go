package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <bsn>",
		Short: "List the indexed versions of a bundle in ascending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := c.app.Versions(cmd.Context(), c.opts.Config, args[0])
			if err != nil {
				return err
			}
			out := make([]string, len(versions))
			for i, v := range versions {
				out[i] = v.String()
			}
			return c.printer(cmd.OutOrStdout()).lines(out)
		},
	}
}
