// =============================================================================
// Sales Summary Report - Check Command
// =============================================================================
//
// This file defines the 'check' command. It makes the same test connection
// the run command makes before a batch, and reports which endpoint answered.
//
// COMMAND USAGE:
//   salesrpt check --site 13100 [--policy 28 | --endpoint HOST]
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/validation"
	"github.com/spf13/cobra"
)

var checkFlags jobFlags

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the database connection of one site",
	Long: `The check command resolves the endpoints of one site, connects with the
configured credentials and prints the endpoint that answered first. No
queries are run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkFlags.register(checkCmd.Flags())
	checkCmd.MarkFlagRequired("site")
}

// runCheck performs one test connection.
func runCheck(ctx context.Context, stdout, stderr io.Writer) error {
	params := checkFlags.params()

	// The date range is not used by a connection test.
	today := time.Now().Format(time.DateOnly)
	if params.FromDate == "" {
		params.FromDate = today
	}
	if params.ToDate == "" {
		params.ToDate = params.FromDate
	}

	problems := validation.ValidateJob(params, []string{checkFlags.site}, mainConfig.RoutingPolicies)
	if validation.HasErrors(problems) {
		fmt.Fprint(stderr, validation.FormatErrors(problems))
		return errors.New("invalid job parameters")
	}

	r := newResolver()

	candidates, err := r.Candidates(checkFlags.site, params)
	if err == nil {
		logger.WithField("site", checkFlags.site).Debugf("trying %v", candidates)
	}

	conn, err := r.Resolve(ctx, checkFlags.site, params)
	if err != nil {
		fmt.Fprintln(stderr, "Test connection failed")
		return err
	}
	defer conn.Close()

	fmt.Fprintf(stdout, "Test connection successful (%s).\n", conn.Endpoint)
	return nil
}
