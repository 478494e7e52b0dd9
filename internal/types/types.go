// =============================================================================
// Sales Summary Report - Shared Types
// =============================================================================
//
// This package contains the data model shared by the resolver, fetcher,
// report writer and batch orchestrator. Keeping it here avoids import cycles
// between those packages:
//   - resolver     : Credentials, Conn
//   - fetcher      : Conn, RawRow, Row variants, SiteData
//   - reportwriter : Row variants, SiteData
//   - batch        : JobParams, SiteJob, SiteOutcome, ReportBundle, Event
//
// =============================================================================

package types

import (
	"context"
	"database/sql"
	"sort"
)

// =============================================================================
// JOB INPUT TYPES
// =============================================================================

// Credentials are the database login used for every site in a batch.
type Credentials struct {
	Username string
	Password string
	Database string
}

// JobParams holds the parameters shared by every site in a batch.
// It is the opaque configuration bundle handed to the orchestrator by
// whatever collected the user's input (CLI flags, config, .env).
type JobParams struct {
	// FromDate and ToDate bound the business dates, formatted YYYY-MM-DD.
	FromDate string
	ToDate   string

	Credentials Credentials

	// RoutingPolicy selects the network prefixes used to derive endpoints.
	RoutingPolicy string

	// CustomEndpoint, when set, is dialed directly and disables derivation.
	CustomEndpoint string
}

// SiteJob is the unit of work for one site. It is created by the
// orchestrator and discarded once its SiteOutcome has been collected.
type SiteJob struct {
	SiteID string

	// Index is the 1-based position of the site in the batch; Total is the
	// batch size. Both are only used for progress messages.
	Index int
	Total int

	JobParams
}

// =============================================================================
// CONNECTION
// =============================================================================

// Conn is a live data-source handle produced by the resolver.
// *sql.DB satisfies it.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Close() error
}

// =============================================================================
// FETCH RESULT
// =============================================================================

// SiteData is everything the report writer needs to render one site.
type SiteData struct {
	SiteID   string
	SiteName string
	FromDate string
	ToDate   string
	Rows     []Row
}

// =============================================================================
// OUTCOMES
// =============================================================================

// SiteOutcome is produced exactly once per SiteJob. It is either a success
// carrying the report text or a failure carrying the error.
type SiteOutcome struct {
	SiteID string
	Report string
	Err    error
}

// Success returns the outcome of a site whose report was generated.
func Success(siteID, report string) SiteOutcome {
	return SiteOutcome{SiteID: siteID, Report: report}
}

// Failure returns the outcome of a site that could not be processed.
func Failure(siteID string, err error) SiteOutcome {
	return SiteOutcome{SiteID: siteID, Err: err}
}

// Succeeded reports whether the outcome carries a report.
func (o SiteOutcome) Succeeded() bool {
	return o.Err == nil
}

// ReportBundle collects the outcomes of a batch. Every site id appears in
// exactly one of Reports or Failures.
type ReportBundle struct {
	// RunID identifies the batch that produced the bundle.
	RunID string

	// Reports maps site id to report text (successes only).
	Reports map[string]string

	// Failures maps site id to error message (failures only).
	Failures map[string]string
}

// NewReportBundle returns an empty bundle.
func NewReportBundle(runID string) *ReportBundle {
	return &ReportBundle{
		RunID:    runID,
		Reports:  make(map[string]string),
		Failures: make(map[string]string),
	}
}

// Add records an outcome. A later outcome for the same site replaces the
// earlier one so the two mappings stay disjoint.
func (b *ReportBundle) Add(o SiteOutcome) {
	if o.Succeeded() {
		delete(b.Failures, o.SiteID)
		b.Reports[o.SiteID] = o.Report
		return
	}
	delete(b.Reports, o.SiteID)
	b.Failures[o.SiteID] = o.Err.Error()
}

// Len returns the number of sites recorded in the bundle.
func (b *ReportBundle) Len() int {
	return len(b.Reports) + len(b.Failures)
}

// ReportSiteIDs returns the site ids with a report, sorted.
func (b *ReportBundle) ReportSiteIDs() []string {
	return sortedKeys(b.Reports)
}

// FailedSiteIDs returns the site ids that failed, sorted.
func (b *ReportBundle) FailedSiteIDs() []string {
	return sortedKeys(b.Failures)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
