package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <files...>",
		Short: "Resolve the imports of each entry file",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}

			reports, err := c.application(cmd).ResolveEntries(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(toJSON(reports)); err != nil {
					return zerr.Wrap(err, "failed to encode reports")
				}
			} else {
				for _, r := range reports {
					printReport(out, r)
				}
			}

			for _, r := range reports {
				if r.Failed() {
					return domain.ErrImportsFailed
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print reports as JSON")
	return cmd
}
