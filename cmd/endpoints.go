// =============================================================================
// Sales Summary Report - Endpoints Command
// =============================================================================
//
// This file defines the 'endpoints' command, which prints the candidate
// endpoints derived for site ids without connecting.
//
// COMMAND USAGE:
//   salesrpt endpoints [--policy 28] SITE_ID...
//
// OUTPUT:
//   13100: 10.16.131.0
//   13X: invalid site id "13X": ...
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/sales-summary-report/internal/resolver"
	"github.com/spf13/cobra"
)

// endpointsPolicy is the routing policy used for derivation.
var endpointsPolicy string

var endpointsCmd = &cobra.Command{
	Use:   "endpoints SITE_ID...",
	Short: "Print the endpoints derived for site ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printEndpoints(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(endpointsCmd)

	endpointsCmd.Flags().StringVar(
		&endpointsPolicy,
		"policy",
		"",
		"Routing policy (default from config)",
	)
}

// printEndpoints writes one line per site id. A malformed id is reported on
// its line and does not stop the others.
func printEndpoints(w io.Writer, siteIDs []string) error {
	policy := endpointsPolicy
	if policy == "" {
		policy = mainConfig.DefaultPolicy
	}
	if _, ok := mainConfig.RoutingPolicies[policy]; !ok {
		return fmt.Errorf("unknown routing policy %q", policy)
	}

	for _, siteID := range siteIDs {
		endpoints, err := resolver.Endpoints(siteID, policy, mainConfig.RoutingPolicies)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", siteID, err)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", siteID, strings.Join(endpoints, ", "))
	}
	return nil
}
