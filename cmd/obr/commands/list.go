package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/obr/internal/app"
)

func (c *CLI) newListCmd() *cobra.Command {
	var opts app.ListOptions
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List bundle symbolic names, optionally filtered by a regular expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Pattern = args[0]
			}
			names, err := c.app.List(cmd.Context(), c.opts.Config, opts)
			if err != nil {
				return err
			}
			return c.printer(cmd.OutOrStdout()).lines(names)
		},
	}
	cmd.Flags().StringVarP(&opts.Glob, "glob", "g", "", "Filter names with a glob instead, '*' stops at dots")
	return cmd
}
