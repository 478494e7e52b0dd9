// =============================================================================
// Sales Summary Report - Run Command
// =============================================================================
//
// This file defines the 'run' command, the main command of the tool. It
// orchestrates the whole report pipeline.
//
// COMMAND USAGE:
//   salesrpt run (--file sites.xlsx | --site 13100) --from DATE --to DATE [flags]
//
// PROCESSING PIPELINE:
//   1. Read the site list (file or --site)
//   2. Validate the job parameters
//   3. Wire resolver, fetcher and report writer
//   4. Run the batch:
//      a. Test connection against the first site
//      b. For each site (concurrently): resolve, fetch, format
//   5. Write the zip archive (skipped with --dry-run)
//   6. Print the summary and the failed sites
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/batch"
	"github.com/ginjaninja78/sales-summary-report/internal/fetcher"
	"github.com/ginjaninja78/sales-summary-report/internal/reportwriter"
	"github.com/ginjaninja78/sales-summary-report/internal/resolver"
	"github.com/ginjaninja78/sales-summary-report/internal/sitelist"
	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/ginjaninja78/sales-summary-report/internal/validation"
	"github.com/ginjaninja78/sales-summary-report/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var runFlags jobFlags

// siteFile is the .xlsx, .csv or .txt file holding the site ids.
var siteFile string

// dryRun runs the batch without writing the archive.
var dryRun bool

// saveSummary also writes the summary next to the archive.
var saveSummary bool

// =============================================================================
// RUN COMMAND DEFINITION
// =============================================================================

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate sales summary reports for a list of sites",
	Long: `The run command connects to every site in the list, reads its figures for
the date range and writes one report per site into a zip archive in the
output directory.

Before any site is processed, a test connection to the first site is made.
If it fails nothing else is attempted.

Sites are processed concurrently (max_workers). A failing site is listed
under "Failed Sites:" and does not affect the others. The command fails only
when no report at all could be generated.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runReports(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runFlags.register(runCmd.Flags())

	runCmd.Flags().StringVar(
		&siteFile,
		"file",
		"",
		"File with the site ids (.xlsx with a 'siteid' column, or .csv/.txt)",
	)

	runCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Generate the reports without writing the archive",
	)

	runCmd.Flags().BoolVar(
		&saveSummary,
		"save-summary",
		false,
		"Also write the summary to the output directory",
	)

	runCmd.MarkFlagsMutuallyExclusive("file", "site")
	runCmd.MarkFlagsOneRequired("file", "site")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runReports is the main function that orchestrates the report pipeline.
func runReports(ctx context.Context, stdout, stderr io.Writer) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: READ SITE LIST
	// =========================================================================

	siteIDs, err := loadSiteIDs()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Loaded %d site(s)\n", len(siteIDs))

	// =========================================================================
	// STEP 2: VALIDATE PARAMETERS
	// =========================================================================

	params := runFlags.params()

	problems := validation.ValidateJob(params, siteIDs, mainConfig.RoutingPolicies)
	if validation.HasErrors(problems) {
		fmt.Fprint(stderr, validation.FormatErrors(problems))
		return errors.New("invalid job parameters")
	}
	for _, problem := range problems {
		logger.Warn(problem.Error())
	}

	// =========================================================================
	// STEP 3: WIRE COMPONENTS
	// =========================================================================

	events := make(chan types.Event, 256)
	orchestrator, err := newOrchestrator(events)
	if err != nil {
		return err
	}

	var printer sync.WaitGroup
	printer.Add(1)
	go func() {
		defer printer.Done()
		for e := range events {
			fmt.Fprintln(stdout, e.String())
		}
	}()

	// =========================================================================
	// STEP 4: RUN THE BATCH
	// =========================================================================

	bundle, runErr := orchestrator.Run(ctx, siteIDs, params)
	close(events)
	printer.Wait()

	var validationErr *types.ErrValidation
	if errors.As(runErr, &validationErr) {
		fmt.Fprintln(stderr, "Test connection failed")
		return runErr
	}
	if bundle == nil {
		return runErr
	}

	// =========================================================================
	// STEP 5: WRITE ARCHIVE
	// =========================================================================

	fm := utils.NewFileManager(appFs, mainConfig.OutputDir, mainConfig.ArchiveName)

	var archivePath string
	if runErr == nil && !dryRun {
		archivePath, err = fm.WriteBundle(bundle)
		if err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 6: PRINT SUMMARY
	// =========================================================================

	summary := utils.NewBatchSummary(bundle, startTime, time.Now(), archivePath)
	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, utils.FormatSummary(summary))

	if saveSummary && !dryRun {
		path, err := fm.WriteSummaryLog(summary)
		if err != nil {
			logger.WithError(err).Warn("failed to save summary")
		} else {
			fmt.Fprintf(stdout, "Summary saved to %s\n", path)
		}
	}

	if errors.Is(runErr, types.ErrNoSuccessfulSites) {
		fmt.Fprintln(stderr, "No successful reports to save.")
		return runErr
	}
	if runErr != nil {
		return runErr
	}

	if summary.Failed > 0 {
		fmt.Fprintf(stdout, "\nWarning: %d site(s) failed. See Failed Sites above.\n", summary.Failed)
	}
	if dryRun {
		fmt.Fprintln(stdout, "Dry run: no archive written.")
	} else {
		fmt.Fprintf(stdout, "Reports saved to %s\n", archivePath)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadSiteIDs reads the site list from --file, or takes the --site value.
func loadSiteIDs() ([]string, error) {
	if siteFile == "" {
		ids := sitelist.Normalize([]string{runFlags.site})
		if len(ids) == 0 {
			return nil, errors.New("no site id given")
		}
		return ids, nil
	}
	return sitelist.Read(appFs, siteFile)
}

// newResolver builds the connection resolver from the configuration.
func newResolver() *resolver.Resolver {
	dialer := resolver.SQLDialer{Driver: mainConfig.Driver}
	return resolver.New(dialer, mainConfig.RoutingPolicies, mainConfig.ConnectTimeout, logger)
}

// newOrchestrator wires resolver, fetcher and report writer into a batch
// orchestrator that reports progress on events.
func newOrchestrator(events chan<- types.Event) (*batch.Orchestrator, error) {
	queries, err := fetcher.LoadQueries(appFs, mainConfig.Queries.SiteNameFile, mainConfig.Queries.SummaryFile)
	if err != nil {
		return nil, err
	}

	options := reportwriter.Options{
		CompanyName: mainConfig.CompanyName,
		Title:       mainConfig.ReportTitle,
	}

	return batch.New(newResolver(), fetcher.New(queries, mainConfig.QueryTimeout, logger), batch.Options{
		MaxWorkers: mainConfig.MaxWorkers,
		Events:     events,
		Logger:     logger,
		Format: func(data *types.SiteData) string {
			return reportwriter.GenerateWithOptions(data, options, time.Now())
		},
	}), nil
}
