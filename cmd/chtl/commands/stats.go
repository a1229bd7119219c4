package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.trai.ch/chtl/internal/adapters/metrics"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print import statistics of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "text", "json", "prometheus":
			default:
				return zerr.With(domain.ErrUnsupportedFormat, "format", format)
			}

			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}

			a := c.application(cmd)
			reports, err := a.ResolveEntries(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports[0].Statistics); err != nil {
					return zerr.Wrap(err, "failed to encode statistics")
				}
			case "prometheus":
				reg, err := a.Metrics().Registry()
				if err != nil {
					return err
				}
				return metrics.WriteText(out, reg)
			default:
				printStatistics(out, reports[0].Statistics)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text|json|prometheus)")
	return cmd
}
