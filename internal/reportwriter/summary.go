// =============================================================================
// Sales Summary Report - Report Aggregation
// =============================================================================
//
// This file turns the decoded rows of one site into the aggregates the report
// prints:
//   - SalesLine     : one per distinct bill type (categories 1 and 3)
//   - PartnerLine   : one per distinct partner (category 0)
//   - ReportTotals  : sums over every bill type except GIFT, plus the cash
//                     figures of the SALES block
//
// Rows of any other category are ignored. Lines keep the first-seen order of
// their key in the row stream.
//
// All amounts are fixed-point decimals; no float arithmetic is involved.
//
// =============================================================================

package reportwriter

import (
	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/shopspring/decimal"
)

// SalesLine is the aggregate printed for one bill type.
// Amount is net plus discount.
type SalesLine struct {
	BillType string

	SaleCount  int64
	SaleNet    decimal.Decimal
	SaleDisc   decimal.Decimal
	SaleAmount decimal.Decimal

	ReturnCount  int64
	ReturnNet    decimal.Decimal
	ReturnDisc   decimal.Decimal
	ReturnAmount decimal.Decimal
}

// OverallCount is the sale count plus the return count.
func (l SalesLine) OverallCount() int64 { return l.SaleCount + l.ReturnCount }

// OverallAmount is the sale amount plus the return amount.
func (l SalesLine) OverallAmount() decimal.Decimal { return l.SaleAmount.Add(l.ReturnAmount) }

// OverallDisc is the sale discount plus the return discount.
func (l SalesLine) OverallDisc() decimal.Decimal { return l.SaleDisc.Add(l.ReturnDisc) }

// OverallNet is the sale net plus the return net.
func (l SalesLine) OverallNet() decimal.Decimal { return l.SaleNet.Add(l.ReturnNet) }

// add folds another line with the same key into l.
func (l *SalesLine) add(o SalesLine) {
	l.SaleCount += o.SaleCount
	l.SaleNet = l.SaleNet.Add(o.SaleNet)
	l.SaleDisc = l.SaleDisc.Add(o.SaleDisc)
	l.SaleAmount = l.SaleAmount.Add(o.SaleAmount)
	l.ReturnCount += o.ReturnCount
	l.ReturnNet = l.ReturnNet.Add(o.ReturnNet)
	l.ReturnDisc = l.ReturnDisc.Add(o.ReturnDisc)
	l.ReturnAmount = l.ReturnAmount.Add(o.ReturnAmount)
}

// PartnerLine is the aggregate printed for one partner.
type PartnerLine struct {
	Name      string
	BillCount int64
	Amount    decimal.Decimal
}

// ReportTotals holds the figures below the per-bill-type listing.
type ReportTotals struct {
	// Sales sums every SalesLine except GIFT. Its BillType is empty.
	Sales SalesLine

	// NetCashSales is sale net plus return net of the CASH bill type,
	// zero when there is none.
	NetCashSales decimal.Decimal

	// TotalPaidIn and TotalPaidOut are not queried yet and are always zero.
	TotalPaidIn  decimal.Decimal
	TotalPaidOut decimal.Decimal

	// TotalSales is NetCashSales + TotalPaidIn + TotalPaidOut.
	TotalSales decimal.Decimal

	PartnerBillCount int64
	PartnerAmount    decimal.Decimal
}

// Summary is the complete aggregate of one site's rows.
type Summary struct {
	Sales    []SalesLine
	Partners []PartnerLine
	Totals   ReportTotals
}

// Summarize aggregates decoded rows.
func Summarize(rows []types.Row) Summary {
	var summary Summary

	salesIndex := make(map[string]int)
	partnerIndex := make(map[string]int)

	for _, row := range rows {
		switch r := row.(type) {
		case types.SalesRow:
			line := SalesLine{
				BillType:     r.BillType,
				SaleCount:    r.SaleCount,
				SaleNet:      r.SaleNet,
				SaleDisc:     r.SaleDisc,
				SaleAmount:   r.SaleNet.Add(r.SaleDisc),
				ReturnCount:  r.ReturnCount,
				ReturnNet:    r.ReturnNet,
				ReturnDisc:   r.ReturnDisc,
				ReturnAmount: r.ReturnNet.Add(r.ReturnDisc),
			}
			if i, ok := salesIndex[r.BillType]; ok {
				summary.Sales[i].add(line)
				continue
			}
			salesIndex[r.BillType] = len(summary.Sales)
			summary.Sales = append(summary.Sales, line)

		case types.PartnerRow:
			key := partnerKey(r)
			if i, ok := partnerIndex[key]; ok {
				summary.Partners[i].BillCount += r.BillCount
				summary.Partners[i].Amount = summary.Partners[i].Amount.Add(r.Amount)
				continue
			}
			partnerIndex[key] = len(summary.Partners)
			summary.Partners = append(summary.Partners, PartnerLine{
				Name:      r.Name,
				BillCount: r.BillCount,
				Amount:    r.Amount,
			})
		}
	}

	summary.Totals = computeTotals(summary.Sales, summary.Partners)
	return summary
}

// partnerKey identifies a partner by corp code. Rows without one are keyed
// by name.
func partnerKey(r types.PartnerRow) string {
	if r.CorpCode != "" {
		return "code:" + r.CorpCode
	}
	return "name:" + r.Name
}

func computeTotals(sales []SalesLine, partners []PartnerLine) ReportTotals {
	var totals ReportTotals

	for _, line := range sales {
		row := types.SalesRow{BillType: line.BillType}
		if !row.IsGift() {
			totals.Sales.add(line)
		}
		if row.IsCash() {
			totals.NetCashSales = line.SaleNet.Add(line.ReturnNet)
		}
	}

	totals.TotalSales = totals.NetCashSales.Add(totals.TotalPaidIn).Add(totals.TotalPaidOut)

	for _, p := range partners {
		totals.PartnerBillCount += p.BillCount
		totals.PartnerAmount = totals.PartnerAmount.Add(p.Amount)
	}

	return totals
}
