// Package commands implements the CLI commands for the chtl import resolver.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/chtl/internal/app"
	"go.trai.ch/chtl/internal/build"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for chtl.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given components.
func New(c *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "chtl",
		Short:         "Resolve and inspect CHTL imports",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (default chtl.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the resolver content cache")
	rootCmd.PersistentFlags().Bool("progress", false, "Record resolution spans as progress vertices")

	cli := &CLI{
		components: c,
		rootCmd:    rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		c.Logger.SetVerbose(verbose)
		return nil
	}

	rootCmd.AddCommand(cli.newResolveCmd())
	rootCmd.AddCommand(cli.newValidateCmd())
	rootCmd.AddCommand(cli.newGraphCmd())
	rootCmd.AddCommand(cli.newStatsCmd())
	rootCmd.AddCommand(cli.newWatchCmd())
	rootCmd.AddCommand(cli.newVersionCmd())

	return cli
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
}

// config loads the run configuration for the current directory and applies flag overrides.
func (c *CLI) config(cmd *cobra.Command) (domain.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to get working directory")
	}

	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return domain.Config{}, err
	}

	cfg, err := c.components.ConfigLoader.Load(cwd, file)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.CacheEnabled = false
	}
	return cfg, nil
}

// application returns the App, recording spans as progress vertices when asked.
func (c *CLI) application(cmd *cobra.Command) *app.App {
	if progress, _ := cmd.Flags().GetBool("progress"); progress && c.components.Progress != nil {
		return c.components.App.WithTracer(c.components.Progress)
	}
	return c.components.App
}
