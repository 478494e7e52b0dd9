// =============================================================================
// Sales Summary Report - Batch Orchestrator
// =============================================================================
//
// This module drives the report pipeline for a list of sites and collects the
// outcomes into a ReportBundle.
//
// BATCH PIPELINE:
//   1. Validate the credentials with one test connection on the first site.
//      A failure here aborts the batch before any site is processed.
//   2. For each site (concurrently, at most MaxWorkers at a time):
//      a. Resolve a connection for the site
//      b. Fetch the site name and summary rows (the connection is closed)
//      c. Format the report text
//   3. Collect the outcomes in completion order into the bundle.
//
// FAILURE ISOLATION:
//   A site failure is recorded in the bundle and never cancels the other
//   sites. Only the validation connection and an all-failed batch are
//   reported as errors by Run.
//
// PROGRESS:
//   Progress events are sent on an optional channel without blocking. When
//   the channel is full the event is dropped. Every event is also logged.
//
// =============================================================================

package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/reportwriter"
	"github.com/ginjaninja78/sales-summary-report/internal/resolver"
	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers is the concurrency cap used when none is configured.
const DefaultMaxWorkers = 10

// =============================================================================
// COLLABORATORS
// =============================================================================

// Resolver produces a live connection for a site.
type Resolver interface {
	Resolve(ctx context.Context, siteID string, params types.JobParams) (*resolver.Connection, error)
}

// Fetcher runs the site queries on a connection and closes it.
type Fetcher interface {
	Fetch(ctx context.Context, conn types.Conn, siteID, fromDate, toDate string) (*types.SiteData, error)
}

// Formatter renders the report text of one site.
type Formatter func(data *types.SiteData) string

// =============================================================================
// OPTIONS
// =============================================================================

// Options contains the optional settings of an Orchestrator.
type Options struct {
	// MaxWorkers caps the number of sites processed at once.
	// Default: 10
	MaxWorkers int

	// Events receives progress events. May be nil.
	Events chan<- types.Event

	// Format renders a site's report.
	// Default: reportwriter.Generate with the current time
	Format Formatter

	Logger logrus.FieldLogger

	// Now is the clock used for event timestamps.
	Now func() time.Time
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs report batches.
type Orchestrator struct {
	resolver   Resolver
	fetcher    Fetcher
	format     Formatter
	maxWorkers int
	events     chan<- types.Event
	logger     logrus.FieldLogger
	now        func() time.Time
}

// New creates an Orchestrator.
func New(r Resolver, f Fetcher, options Options) *Orchestrator {
	o := &Orchestrator{
		resolver:   r,
		fetcher:    f,
		format:     options.Format,
		maxWorkers: options.MaxWorkers,
		events:     options.Events,
		logger:     options.Logger,
		now:        options.Now,
	}
	if o.maxWorkers <= 0 {
		o.maxWorkers = DefaultMaxWorkers
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.format == nil {
		o.format = func(data *types.SiteData) string {
			return reportwriter.Generate(data, o.now())
		}
	}
	return o
}

// Run processes every site and returns the bundle of outcomes.
//
// ERRORS:
//   - *types.ErrValidation when the test connection fails; no site is
//     processed and the bundle is nil
//   - types.ErrNoSuccessfulSites when every site failed; the bundle is still
//     returned so the failures can be reported
func (o *Orchestrator) Run(ctx context.Context, siteIDs []string, params types.JobParams) (*types.ReportBundle, error) {
	if len(siteIDs) == 0 {
		return nil, errors.New("no site ids to process")
	}

	runID := uuid.NewString()
	log := o.logger.WithField("run_id", runID)
	start := o.now()
	total := len(siteIDs)

	o.emit(log, types.Event{RunID: runID, Kind: types.EventBatchStarted, Total: total,
		Message: fmt.Sprintf("Started generating report for %d site(s)...", total)})

	// =========================================================================
	// STEP 1: TEST CONNECTION
	// =========================================================================

	if err := o.validate(ctx, log, runID, siteIDs[0], params); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: PROCESS SITES CONCURRENTLY
	// =========================================================================

	workers := min(total, o.maxWorkers)
	results := make(chan types.SiteOutcome, total)

	go func() {
		var g errgroup.Group
		g.SetLimit(workers)
		for i, siteID := range siteIDs {
			job := types.SiteJob{SiteID: siteID, Index: i + 1, Total: total, JobParams: params}
			g.Go(func() error {
				results <- o.processSite(ctx, log, runID, job)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 3: COLLECT OUTCOMES
	// =========================================================================

	bundle := types.NewReportBundle(runID)
	for outcome := range results {
		bundle.Add(outcome)
		if outcome.Succeeded() {
			o.emit(log, types.Event{RunID: runID, Kind: types.EventSiteCompleted, SiteID: outcome.SiteID, Total: total,
				Message: fmt.Sprintf("Completed site %s.", outcome.SiteID)})
			continue
		}
		o.emit(log, types.Event{RunID: runID, Kind: types.EventSiteFailed, SiteID: outcome.SiteID, Total: total,
			Message: fmt.Sprintf("Error processing site %s: %v", outcome.SiteID, outcome.Err)})
	}

	o.emit(log, types.Event{RunID: runID, Kind: types.EventBatchCompleted, Total: total,
		Message: fmt.Sprintf("Report generation completed: %d succeeded, %d failed in %s.",
			len(bundle.Reports), len(bundle.Failures), o.now().Sub(start).Round(time.Millisecond))})

	if len(bundle.Reports) == 0 {
		return bundle, types.ErrNoSuccessfulSites
	}
	return bundle, nil
}

// validate opens and closes one connection for the first site.
func (o *Orchestrator) validate(ctx context.Context, log logrus.FieldLogger, runID, siteID string, params types.JobParams) error {
	o.emit(log, types.Event{RunID: runID, Kind: types.EventValidationStarted, SiteID: siteID,
		Message: "Validating connection with test connection..."})

	conn, err := o.resolver.Resolve(ctx, siteID, params)
	if err != nil {
		o.emit(log, types.Event{RunID: runID, Kind: types.EventValidationFailed, SiteID: siteID,
			Message: fmt.Sprintf("Test connection failed: %v", err)})
		return &types.ErrValidation{SiteID: siteID, Err: err}
	}
	if err := conn.Close(); err != nil {
		log.WithError(err).Warn("failed to close test connection")
	}

	o.emit(log, types.Event{RunID: runID, Kind: types.EventValidationPassed, SiteID: siteID,
		Message: fmt.Sprintf("Test connection successful (%s).", conn.Endpoint)})
	return nil
}

// processSite runs resolve, fetch and format for one site. It always
// returns exactly one outcome, including when a stage panics.
func (o *Orchestrator) processSite(ctx context.Context, log logrus.FieldLogger, runID string, job types.SiteJob) (outcome types.SiteOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = types.Failure(job.SiteID, fmt.Errorf("internal error: %v", r))
		}
	}()

	o.emit(log, types.Event{RunID: runID, Kind: types.EventSiteStarted, SiteID: job.SiteID, Index: job.Index, Total: job.Total,
		Message: fmt.Sprintf("Processing site %s (%d/%d)...", job.SiteID, job.Index, job.Total)})

	conn, err := o.resolver.Resolve(ctx, job.SiteID, job.JobParams)
	if err != nil {
		return types.Failure(job.SiteID, err)
	}

	data, err := o.fetcher.Fetch(ctx, conn, job.SiteID, job.FromDate, job.ToDate)
	if err != nil {
		return types.Failure(job.SiteID, err)
	}

	return types.Success(job.SiteID, o.format(data))
}

// emit logs the event and offers it to the events channel without blocking.
func (o *Orchestrator) emit(log logrus.FieldLogger, e types.Event) {
	e.Time = o.now()

	entry := log.WithField("event", string(e.Kind))
	if e.SiteID != "" {
		entry = entry.WithField("site", e.SiteID)
	}
	switch e.Kind {
	case types.EventSiteFailed, types.EventValidationFailed:
		entry.Warn(e.Message)
	case types.EventSiteStarted, types.EventSiteCompleted:
		entry.Debug(e.Message)
	default:
		entry.Info(e.Message)
	}

	if o.events == nil {
		return
	}
	select {
	case o.events <- e:
	default:
	}
}
