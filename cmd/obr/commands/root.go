// Package commands implements the CLI commands for the obr bundle repository tool.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/obr/internal/app"
	"go.trai.ch/obr/internal/build"
	"go.trai.ch/obr/internal/core/domain"
)

// CLI represents the command line interface for obr.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
	opts    app.Options
	flush   func(context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "obr",
		Short:         "Query and resolve bundles from OBR repository indexes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.opts.Config, "config", "c", domain.ConfigFileName, "Path to the repository configuration")
	flags.BoolVar(&c.opts.JSON, "json", false, "Print results and logs as JSON")
	flags.BoolVar(&c.opts.Verbose, "verbose", false, "Show debug output")
	flags.BoolVar(&c.opts.Trace, "trace", false, "Report timings of index loading and fetches")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		c.flush = c.app.Configure(c.opts)
	}

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionsCmd())
	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newPutCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.flush != nil {
		if flushErr := c.flush(context.WithoutCancel(ctx)); err == nil {
			err = flushErr
		}
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}
