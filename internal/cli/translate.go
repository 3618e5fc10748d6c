package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/edgekit/edgectl/internal/config"
)

// newTranslateCmd creates the translate subcommand: look up an edge error
// reference code.
func newTranslateCmd() *cobra.Command {
	var (
		trace  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "translate ERROR_CODE",
		Short: "Translate an edge error reference code",
		Args:  cobra.ExactArgs(1),
		Example: `  # Translate an error reference
  edgectl translate 9.abcdef12.1700000000.1a2b3c

  # Include forward logs in the lookup
  edgectl translate 9.abcdef12.1700000000.1a2b3c --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			errorCode := args[0]

			// Piped output gets JSON unless a format was asked for.
			if !cmd.Flags().Changed("output") && !isTerminal(os.Stdout) {
				output = "json"
			}

			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.Translate(cmd.Context(), errorCode, trace)
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			if resp.Result.NoLogs != "" {
				logger.Warn().Str("error_code", errorCode).Msg("no logs matched the reference")
				cmd.PrintErrf("No logs found for reference %s: %s\n", errorCode, resp.Result.NoLogs)
			}

			renderTranslate(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "trace forward logs for the reference")
	cmd.Flags().StringVarP(&output, "output", "o", config.GetDefaultOutputFormat(), "output format: table or json")

	return cmd
}
