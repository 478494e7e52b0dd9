// =============================================================================
// Sales Summary Report - Site Fetcher
// =============================================================================
//
// This package runs the two queries of a site report on a resolved
// connection:
//   1. the site-name lookup (a missing site yields "Unknown Site")
//   2. the summary query, a single tagged-union result set whose leading
//      category column tells which sub-aggregate each row belongs to
//
// Rows are decoded into typed variants here, once, so the report writer never
// deals with positional columns. The connection is closed when Fetch returns,
// whatever the outcome.
//
// =============================================================================

package fetcher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// UnknownSiteName is the display name of a site missing from the site table.
const UnknownSiteName = "Unknown Site"

// Fetcher runs the site queries.
type Fetcher struct {
	queries      Queries
	queryTimeout time.Duration
	logger       logrus.FieldLogger
}

// New creates a fetcher. A zero queryTimeout disables the timeout.
func New(queries Queries, queryTimeout time.Duration, logger logrus.FieldLogger) *Fetcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Fetcher{
		queries:      queries,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// Fetch returns the decoded rows and display name of one site and closes
// conn. Query failures are returned as *types.ErrQuery.
func (f *Fetcher) Fetch(ctx context.Context, conn types.Conn, siteID, fromDate, toDate string) (data *types.SiteData, err error) {
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			f.logger.WithError(cerr).WithField("site", siteID).Warn("failed to close connection")
		}
	}()

	if f.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.queryTimeout)
		defer cancel()
	}

	start := time.Now()

	name, err := f.siteName(ctx, conn, siteID)
	if err != nil {
		return nil, &types.ErrQuery{SiteID: siteID, Op: "site name", Err: err}
	}

	raws, err := f.summary(ctx, conn, siteID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	f.logger.WithFields(logrus.Fields{
		"site":    siteID,
		"rows":    len(raws),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("site data fetched")

	return &types.SiteData{
		SiteID:   siteID,
		SiteName: name,
		FromDate: fromDate,
		ToDate:   toDate,
		Rows:     types.DecodeAll(raws),
	}, nil
}

func (f *Fetcher) siteName(ctx context.Context, conn types.Conn, siteID string) (string, error) {
	var name sql.NullString
	err := conn.QueryRowContext(ctx, f.queries.SiteName, sql.Named("p1", siteID)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return UnknownSiteName, nil
	}
	if err != nil {
		return "", err
	}
	if !name.Valid {
		return UnknownSiteName, nil
	}
	return name.String, nil
}

// SummaryArgs returns the bound parameters of the summary query.
func SummaryArgs(fromDate, toDate string) []any {
	args := make([]any, 0, SummaryParamCount)
	for i := 1; i <= SummaryParamCount; i += 2 {
		args = append(args,
			sql.Named(fmt.Sprintf("p%d", i), fromDate),
			sql.Named(fmt.Sprintf("p%d", i+1), toDate),
		)
	}
	return args
}

func (f *Fetcher) summary(ctx context.Context, conn types.Conn, siteID, fromDate, toDate string) ([]types.RawRow, error) {
	rows, err := conn.QueryContext(ctx, f.queries.Summary, SummaryArgs(fromDate, toDate)...)
	if err != nil {
		return nil, &types.ErrQuery{SiteID: siteID, Op: "summary", Err: err}
	}
	defer rows.Close()

	var raws []types.RawRow
	for rows.Next() {
		raw, err := scanRawRow(rows)
		if err != nil {
			return nil, &types.ErrQuery{SiteID: siteID, Op: "scan", Err: err}
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrQuery{SiteID: siteID, Op: "summary", Err: err}
	}

	return raws, nil
}

// scanRawRow reads one summary row. NULL columns become zero values.
func scanRawRow(rows *sql.Rows) (types.RawRow, error) {
	var (
		category, count, returnCount            sql.NullInt64
		groupKey, label                         sql.NullString
		amount, discount, retAmount, retDiscount decimal.NullDecimal
	)

	if err := rows.Scan(
		&category, &groupKey, &label,
		&amount, &discount, &retAmount, &retDiscount,
		&count, &returnCount,
	); err != nil {
		return types.RawRow{}, err
	}

	return types.RawRow{
		Category:       types.Category(category.Int64),
		GroupKey:       groupKey.String,
		Label:          label.String,
		Amount:         amount.Decimal,
		Discount:       discount.Decimal,
		ReturnAmount:   retAmount.Decimal,
		ReturnDiscount: retDiscount.Decimal,
		Count:          count.Int64,
		ReturnCount:    returnCount.Int64,
	}, nil
}
