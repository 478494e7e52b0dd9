package fetcher

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// SummaryParamCount is the number of bound parameters of the summary query:
// the date range bound once per sub-aggregate.
const SummaryParamCount = 14

// Queries holds the SQL run against a site database.
//
// SiteName takes the site id as @p1 and returns the site name in its first
// column. Summary takes the date range as @p1..@p14 (from, to, from, to, ...)
// and returns the tagged-union row shape: category, group key, label, amount,
// discount, return amount, return discount, count, return count.
type Queries struct {
	SiteName string
	Summary  string
}

// DefaultQueries returns the T-SQL used against the store databases.
func DefaultQueries() Queries {
	return Queries{
		SiteName: defaultSiteNameQuery,
		Summary:  defaultSummaryQuery,
	}
}

// LoadQueries returns the default queries with any non-empty file path
// replacing the matching query.
func LoadQueries(fs afero.Fs, siteNameFile, summaryFile string) (Queries, error) {
	q := DefaultQueries()

	if siteNameFile != "" {
		text, err := readQuery(fs, siteNameFile)
		if err != nil {
			return q, err
		}
		q.SiteName = text
	}

	if summaryFile != "" {
		text, err := readQuery(fs, summaryFile)
		if err != nil {
			return q, err
		}
		q.Summary = text
	}

	return q, nil
}

func readQuery(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read query file %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("query file %s is empty", path)
	}
	return text, nil
}

const defaultSiteNameQuery = `SELECT name FROM ax.inventsite WHERE siteid = @p1`

const defaultSummaryQuery = `
select ISHEADER = CASE WHEN BILLTYPE = 'GIFT' THEN 3 ELSE 1 END,
       ACXCORPCODE = -1,
       upper(BILLTYPE) BILLTYPE,
       sum(saleamt) NETSALEAMT,
       cast(sum(discamt) as decimal(12,2)) DISCAMT,
       cast(sum(RETAMT) as decimal(12,2)) NETRETAMT,
       cast(sum(RETDISC) as decimal(12,2)) RETDISC,
       sum(isscnt) SALECOUNT,
       sum(retcnt) RETCNT
from (
    select name billtype,
           cast(sum(AMOUNTTENDERED) as decimal(12,2)) saleamt,
           sum(DISCAMOUNT) DISCAMT,
           0 RETAMT,
           0 RETDISC,
           count(distinct rt.receiptid) isscnt,
           0 retcnt
    from ax.retailtransactiontable rt
    join ax.RETAILTRANSACTIONPAYMENTTRANS rpt
      on rt.TRANSACTIONID = rpt.TRANSACTIONID and rt.RECEIPTID = rpt.RECEIPTID
    join RETAILTENDERTYPETABLE rtt
      on rpt.TENDERTYPE = rtt.TENDERTYPEID
    where ENTRYSTATUS = 0
      and acxtranstype = 0
      and rpt.TRANSACTIONSTATUS = 0
      and rpt.BUSINESSDATE between @p1 and @p2
      and rpt.RECEIPTID not in (
            select IQ.receiptid
            from ax.RETAILTRANSACTIONPAYMENTTRANS as IQ
            where IQ.receiptid like 'IP%'
              and IQ.tendertype in (1,2)
              and IQ.BUSINESSDATE between @p3 and @p4
      )
    group by name, DISCAMOUNT
    union
    select name,
           0 saleamt,
           0 DISCAMT,
           sum(AMOUNTTENDERED) AMOUNTTENDERED,
           sum(-1*DISCAMOUNT) DISCAMT,
           0 isscnt,
           count(distinct rt.receiptid) retcnt
    from ax.retailtransactiontable rt
    join ax.RETAILTRANSACTIONPAYMENTTRANS rpt
      on rt.TRANSACTIONID = rpt.TRANSACTIONID and rt.RECEIPTID = rpt.RECEIPTID
    join RETAILTENDERTYPETABLE rtt
      on rpt.TENDERTYPE = rtt.TENDERTYPEID
    where ENTRYSTATUS = 0
      and acxtranstype <> 0
      and rpt.TRANSACTIONSTATUS = 0
      and rpt.BUSINESSDATE between @p5 and @p6
    group by name
) a
group by billtype
union all
select ISHEADER = 0,
       ACXCORPCODE,
       ax.getcorporatename(acxcorpcode) CORPORATE,
       (cast(sum(CASE WHEN ACXCORPCODE = '172' AND ACXCREDIT = 0 THEN 0 ELSE -1*GROSSAMOUNT END)
        - sum(case when ACXTRANSTYPE = 0 then discamount
                   when ACXTRANSTYPE <> 0 then -1*discamount end) as decimal(18,2)) - sum(ACXLOYALTY)) NETAMT,
       0, 0, 0,
       count(distinct CASE WHEN ACXCORPCODE = '172' AND ACXCREDIT = 0 THEN NULL ELSE receiptid END) BILLCNT,
       0
from ax.retailtransactiontable
where ENTRYSTATUS = 0
  and BUSINESSDATE between @p7 and @p8
group by acxcorpcode
union all
select ISHEADER = 2,
       PAYMENTCODE,
       'HEALINGCARD-' + PAYMENTTYPE,
       sum(TRANSAMT) Amount,
       0, 0, 0, 0, 0
from HEALING_CARD_TRANSACTION
where ACTIONID in (0,1)
  and cast(TRANSACTIONDATE as date) between @p9 and @p10
group by PAYMENTCODE, PAYMENTTYPE
union all
select ISHEADER = 4,
       0,
       'OMS CASH COLLECTION',
       isnull(sum(COLLECTEDAMT), 0) as COLLECTEDAMT,
       0, 0, 0, 0, 0
from ax.ACXSETTLEMENTDETAILS
where cast(SETTLEMENTDATE as date) between @p11 and @p12
union all
select ISHEADER = 5,
       tendertype,
       'IP COLLECTION',
       isnull(sum(AMOUNTTENDERED), 0) as COLLECTEDAMT,
       0, 0, 0, 0, 0
from ax.retailtransactionpaymenttrans
where tendertype in (1,2)
  and receiptid like 'IP%'
  and BUSINESSDATE between @p13 and @p14
group by tendertype
`
