package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Print the import dependency graph of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "text" && format != "dot" {
				return zerr.With(domain.ErrUnsupportedFormat, "format", format)
			}

			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}

			reports, err := c.application(cmd).ResolveEntries(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			r := reports[0]

			out := cmd.OutOrStdout()
			if format == "dot" {
				_, _ = fmt.Fprint(out, r.DOT)
				return nil
			}

			for _, e := range r.Graph.Edges() {
				_, _ = fmt.Fprintf(out, "%s -> %s\n", e.Dependent, e.Dependency)
			}
			for _, cycle := range r.Graph.FindAllCycles() {
				_, _ = fmt.Fprintf(out, "cycle: %s\n", domain.JoinPaths(cycle))
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text|dot)")
	return cmd
}
