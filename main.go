// =============================================================================
// Sales Summary Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the salesrpt CLI application. It hands
// control to the Cobra commands in the cmd package.
//
// USAGE:
//   salesrpt run        - Generate reports for a list of sites
//   salesrpt check      - Test the connection of one site
//   salesrpt endpoints  - Print the endpoints derived for site ids
//   salesrpt version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : resolver, fetcher, report writer, batch orchestrator,
//                      site list, validation, configuration
//   - pkg/utils      : archive and summary files
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-summary-report/cmd"
)

func main() {
	cmd.Execute()
}
