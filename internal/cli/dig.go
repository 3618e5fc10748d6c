package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgekit/edgectl/internal/config"
)

// dnsQueryTypes are the record types the diagnostics API accepts.
var dnsQueryTypes = []string{"A", "AAAA", "SOA", "CNAME", "PTR", "NS", "TXT", "MX", "SRV", "CAA", "ANY"} //nolint:gochecknoglobals // Compile-time constant lookup table.

// validQueryType reports whether qt is a supported DNS record type.
func validQueryType(qt string) bool {
	for _, t := range dnsQueryTypes {
		if strings.EqualFold(qt, t) {
			return true
		}
	}
	return false
}

// newDigCmd creates the dig subcommand: resolve a hostname from an edge
// server.
func newDigCmd() *cobra.Command {
	var (
		queryType string
		short     bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "dig HOSTNAME",
		Short: "Resolve a hostname from an edge server",
		Args:  cobra.ExactArgs(1),
		Example: `  # Resolve A records
  edgectl dig www.example.com

  # Resolve MX records, values only
  edgectl dig example.com --query-type MX --short

  # JSON output
  edgectl dig www.example.com --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hostname := args[0]

			if !validQueryType(queryType) {
				return fmt.Errorf("unsupported query type %q (valid: %s)",
					queryType, strings.Join(dnsQueryTypes, ", "))
			}
			queryType = strings.ToUpper(queryType)

			// Piped output gets JSON unless a format was asked for.
			if !cmd.Flags().Changed("output") && !isTerminal(os.Stdout) {
				output = "json"
			}

			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.Dig(cmd.Context(), hostname, queryType)
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			if len(resp.Result.AnswerSection) == 0 {
				logger.Warn().Str("hostname", hostname).Str("query_type", queryType).Msg("no records matched the query")
				cmd.PrintErrf("No %s records found for %s\n", queryType, hostname)
				return nil
			}

			renderDigTable(cmd.OutOrStdout(), resp, hostname, queryType, short)
			return nil
		},
	}

	cmd.Flags().StringVarP(&queryType, "query-type", "t", "A", "DNS record type to query")
	cmd.Flags().BoolVar(&short, "short", false, "show only returned values")
	cmd.Flags().StringVarP(&output, "output", "o", config.GetDefaultOutputFormat(), "output format: table or json")

	return cmd
}
