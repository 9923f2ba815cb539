package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/obr/internal/app"
)

func (c *CLI) newGetCmd() *cobra.Command {
	var opts app.GetOptions
	cmd := &cobra.Command{
		Use:   "get <bsn> [range]",
		Short: "Download a bundle and print its local path",
		Long: `Download a bundle and print its local path.

The range is a version (meaning "at least"), an interval such as [1.0,2.0),
"latest" or "project". Without a range every version matches.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SymbolicName = args[0]
			if len(args) == 2 {
				opts.Range = args[1]
			}
			paths, err := c.app.Get(cmd.Context(), c.opts.Config, opts)
			if err != nil {
				return err
			}
			return c.printer(cmd.OutOrStdout()).lines(paths)
		},
	}
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "highest", "Version to pick: highest, lowest or exact")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Download every matching version")
	return cmd
}
