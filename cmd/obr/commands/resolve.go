package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/obr/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	var opts app.ResolveOptions
	cmd := &cobra.Command{
		Use:   "resolve <package> [range]",
		Short: "Find the bundle exporting a package and print its path and uses",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Package = args[0]
			if len(args) == 2 {
				opts.Range = args[1]
			}
			res, err := c.app.Resolve(cmd.Context(), c.opts.Config, opts)
			if err != nil {
				return err
			}

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				if res == nil {
					return p.encode(nil)
				}
				return p.encode(map[string]any{
					"file":               res.File,
					"location":           res.Location,
					"digest":             res.Digest,
					"importUses":         res.Uses,
					"importUsesExternal": res.ExternalUse,
				})
			}
			if res == nil {
				return nil
			}

			var b strings.Builder
			fmt.Fprintln(&b, p.name.Render(res.File))
			fmt.Fprintln(&b, p.muted.Render("  location: ")+res.Location)
			fmt.Fprintln(&b, p.muted.Render("  digest:   ")+res.Digest)
			if len(res.Uses) > 0 {
				fmt.Fprintln(&b, p.muted.Render("  uses:     ")+strings.Join(res.Uses, ", "))
			}
			for _, ext := range res.ExternalUse {
				fmt.Fprintln(&b, p.muted.Render("  imports:  ")+ext)
			}
			_, err = fmt.Fprint(p.w, b.String())
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "LDAP filter over package and version, overrides the range")
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "highest", "Version to pick: highest, lowest or exact")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "Resolution mode, build unless set")
	return cmd
}
