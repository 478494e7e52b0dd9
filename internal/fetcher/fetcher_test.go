package fetcher_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-summary-report/internal/fetcher"
	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE inventsite (siteid TEXT PRIMARY KEY, name TEXT);
CREATE TABLE summary (
	businessdate TEXT NOT NULL,
	category     INTEGER,
	groupkey     TEXT,
	label        TEXT,
	amount       TEXT,
	discount     TEXT,
	retamount    TEXT,
	retdiscount  TEXT,
	cnt          INTEGER,
	retcnt       INTEGER,
	seq          INTEGER NOT NULL
);
`

// sqliteSummary mirrors the shape of the production query: seven
// sub-selects, each bound to its own copy of the date range.
var sqliteSummary = func() string {
	var parts []string
	for i, category := range []string{"1", "3", "0", "2", "4", "5", "99"} {
		from, to := 2*i+1, 2*i+2
		parts = append(parts, "SELECT category, groupkey, label, amount, discount, retamount, retdiscount, cnt, retcnt, seq FROM summary"+
			" WHERE category = "+category+
			" AND businessdate BETWEEN @p"+strconv.Itoa(from)+" AND @p"+strconv.Itoa(to))
	}
	return "SELECT category, groupkey, label, amount, discount, retamount, retdiscount, cnt, retcnt FROM (" +
		strings.Join(parts, " UNION ALL ") + ") ORDER BY seq"
}()

// trackingConn records whether Close was called.
type trackingConn struct {
	*sql.DB
	closed bool
}

func (c *trackingConn) Close() error {
	c.closed = true
	return c.DB.Close()
}

func openSiteDB(t *testing.T) *trackingConn {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("schema: %v", err)
	}

	_, err = db.Exec(`
INSERT INTO inventsite VALUES ('13100', 'HYDERABAD JUBILEE HILLS');
INSERT INTO summary VALUES
	('2024-01-05', 1, '-1', 'CASH', '152340.50', '1250.25', '-2340.00', '-45.10', 412, 9, 1),
	('2024-01-05', 3, '-1', 'GIFT', '5000.00', '0', '0', '0', 12, 0, 2),
	('2024-01-06', 0, '172', 'APOLLO MUNICH HEALTH INSURANCE', '45210.75', '0', '0', '0', 38, 0, 3),
	('2024-01-07', 2, 'HC1', 'HEALINGCARD-CASH', '999.00', '0', '0', '0', 0, 0, 4),
	('2024-01-08', 4, '0', 'OMS CASH COLLECTION', NULL, NULL, NULL, NULL, NULL, NULL, 5),
	('2024-01-09', 5, '1', 'IP COLLECTION', '700.00', '0', '0', '0', 0, 0, 6),
	('2024-02-01', 1, '-1', 'CARD', '10.00', '0', '0', '0', 1, 0, 7),
	('2023-12-31', 0, '201', 'STAR HEALTH', '1.00', '0', '0', '0', 1, 0, 8);
`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	return &trackingConn{DB: db}
}

func newFetcher() *fetcher.Fetcher {
	logger, _ := test.NewNullLogger()
	return fetcher.New(fetcher.Queries{
		SiteName: "SELECT name FROM inventsite WHERE siteid = @p1",
		Summary:  sqliteSummary,
	}, 0, logger)
}

func TestFetch_DecodesRowsInOrder(t *testing.T) {
	conn := openSiteDB(t)

	data, err := newFetcher().Fetch(context.Background(), conn, "13100", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if data.SiteName != "HYDERABAD JUBILEE HILLS" {
		t.Errorf("site name: got %q", data.SiteName)
	}
	if data.FromDate != "2024-01-01" || data.ToDate != "2024-01-31" {
		t.Errorf("date range: got %s..%s", data.FromDate, data.ToDate)
	}

	// CARD and STAR HEALTH fall outside the date range.
	if len(data.Rows) != 6 {
		t.Fatalf("rows: want 6, got %d", len(data.Rows))
	}

	cash, ok := data.Rows[0].(types.SalesRow)
	if !ok {
		t.Fatalf("row 0: want SalesRow, got %T", data.Rows[0])
	}
	if cash.BillType != "CASH" || !cash.SaleNet.Equal(decimal.RequireFromString("152340.50")) ||
		!cash.ReturnDisc.Equal(decimal.RequireFromString("-45.10")) || cash.SaleCount != 412 || cash.ReturnCount != 9 {
		t.Errorf("cash row: got %+v", cash)
	}

	if gift, ok := data.Rows[1].(types.SalesRow); !ok || !gift.IsGift() || gift.Category() != types.CategoryGift {
		t.Errorf("row 1: want GIFT sales row, got %+v", data.Rows[1])
	}

	partner, ok := data.Rows[2].(types.PartnerRow)
	if !ok || partner.CorpCode != "172" || partner.BillCount != 38 || !partner.Amount.Equal(decimal.RequireFromString("45210.75")) {
		t.Errorf("row 2: got %+v", data.Rows[2])
	}

	oms, ok := data.Rows[4].(types.CollectionRow)
	if !ok || oms.Category() != types.CategoryOMSCash || !oms.Amount.IsZero() {
		t.Errorf("row 4: NULL amount should decode to zero, got %+v", data.Rows[4])
	}

	if !conn.closed {
		t.Errorf("connection was not closed")
	}
}

func TestFetch_UnknownSite(t *testing.T) {
	conn := openSiteDB(t)

	data, err := newFetcher().Fetch(context.Background(), conn, "99999", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if data.SiteName != fetcher.UnknownSiteName {
		t.Errorf("site name: want %q, got %q", fetcher.UnknownSiteName, data.SiteName)
	}
}

func TestFetch_QueryErrorClosesConnection(t *testing.T) {
	conn := openSiteDB(t)
	logger, _ := test.NewNullLogger()
	f := fetcher.New(fetcher.Queries{
		SiteName: "SELECT name FROM inventsite WHERE siteid = @p1",
		Summary:  "SELECT * FROM no_such_table",
	}, 0, logger)

	_, err := f.Fetch(context.Background(), conn, "13100", "2024-01-01", "2024-01-31")
	var queryErr *types.ErrQuery
	if !errors.As(err, &queryErr) {
		t.Fatalf("want *ErrQuery, got %v", err)
	}
	if queryErr.Op != "summary" || queryErr.SiteID != "13100" {
		t.Errorf("ErrQuery: got %+v", queryErr)
	}
	if !conn.closed {
		t.Errorf("connection was not closed on failure")
	}
}

func TestFetch_SiteNameErrorClosesConnection(t *testing.T) {
	conn := openSiteDB(t)
	logger, _ := test.NewNullLogger()
	f := fetcher.New(fetcher.Queries{SiteName: "SELECT name FROM missing WHERE siteid = @p1", Summary: sqliteSummary}, 0, logger)

	_, err := f.Fetch(context.Background(), conn, "13100", "2024-01-01", "2024-01-31")
	if got := types.ErrorCode(err); got != types.ErrCodeQuery {
		t.Fatalf("ErrorCode: want %s, got %s (%v)", types.ErrCodeQuery, got, err)
	}
	if !conn.closed {
		t.Errorf("connection was not closed on failure")
	}
}

func TestSummaryArgs(t *testing.T) {
	args := fetcher.SummaryArgs("2024-01-01", "2024-01-31")
	if len(args) != fetcher.SummaryParamCount {
		t.Fatalf("args: want %d, got %d", fetcher.SummaryParamCount, len(args))
	}
	for i, arg := range args {
		named, ok := arg.(sql.NamedArg)
		if !ok {
			t.Fatalf("arg %d: want sql.NamedArg, got %T", i, arg)
		}
		want := "2024-01-01"
		if i%2 == 1 {
			want = "2024-01-31"
		}
		if want := "p" + strconv.Itoa(i+1); named.Name != want {
			t.Errorf("arg %d: want name %s, got %s", i, want, named.Name)
		}
		if named.Value != want {
			t.Errorf("arg %d: want %s, got %v", i, want, named.Value)
		}
	}
}

func TestDefaultQueries_BindEveryParameterOnce(t *testing.T) {
	q := fetcher.DefaultQueries()
	if !strings.Contains(q.SiteName, "@p1") {
		t.Errorf("site name query does not use @p1")
	}
	for i := fetcher.SummaryParamCount; i >= 1; i-- {
		name := "@p" + strconv.Itoa(i)
		if n := strings.Count(q.Summary, name+" ") + strings.Count(q.Summary, name+"\n"); n != 1 {
			t.Errorf("summary query: %s appears %d times", name, n)
		}
	}
}

func TestLoadQueries(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/sql/summary.sql", []byte("\n  SELECT 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := afero.WriteFile(fs, "/sql/empty.sql", []byte("   \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	q, err := fetcher.LoadQueries(fs, "", "/sql/summary.sql")
	if err != nil {
		t.Fatalf("LoadQueries: %v", err)
	}
	if q.Summary != "SELECT 1" {
		t.Errorf("summary: want override, got %q", q.Summary)
	}
	if q.SiteName != fetcher.DefaultQueries().SiteName {
		t.Errorf("site name: want default, got %q", q.SiteName)
	}

	if _, err := fetcher.LoadQueries(fs, "/sql/missing.sql", ""); err == nil {
		t.Errorf("missing file: want error")
	}
	if _, err := fetcher.LoadQueries(fs, "/sql/empty.sql", ""); err == nil {
		t.Errorf("empty file: want error")
	}
}
