// =============================================================================
// Sales Summary Report - Fixed-Width Report Writer
// =============================================================================
//
// This module renders one site's aggregates as the fixed-width text report.
// The layout is a compatibility contract: every literal and column width
// below is part of the format.
//
// PAGE LAYOUT:
//   1. Header     : date and time right-justified, company, site, title and
//                   date range centered
//   2. Sales grid : SALES / RETURNS / NET group header, column header, one
//                   row per bill type, totals row (GIFT excluded)
//   3. SALES :-   : net cash sales, paid in/out, total sales
//   4. HealingCard collections block (literal zeros)
//   5. Partner Program Summary with its own totals
//
// LINE WIDTH:
//   Every line is exactly PageWidth characters: shorter lines are padded with
//   spaces, longer ones truncated. The two rules around the partner totals
//   are PartnerRuleWidth characters.
//
// =============================================================================

package reportwriter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/types"
)

const (
	// PageWidth is the width of every report line.
	PageWidth = 180

	// PartnerRuleWidth is the width of the rules around the partner totals.
	PartnerRuleWidth = PageWidth - 50

	// groupWidth is the width of each SALES / RETURNS / NET header segment.
	groupWidth = 55
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options contains options for report generation.
type Options struct {
	// CompanyName is centered on the first header line.
	// Default: "APOLLO PHARMACIES LIMITED"
	CompanyName string

	// Title is centered below the site line.
	// Default: "Sales Transaction Summary Report"
	Title string
}

// DefaultOptions returns the default report options.
func DefaultOptions() Options {
	return Options{
		CompanyName: "APOLLO PHARMACIES LIMITED",
		Title:       "Sales Transaction Summary Report",
	}
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate renders the report for one site with the default options.
// now is printed in the header; passing the same now and data always yields
// the same text.
func Generate(data *types.SiteData, now time.Time) string {
	return GenerateWithOptions(data, DefaultOptions(), now)
}

// GenerateWithOptions renders the report for one site.
func GenerateWithOptions(data *types.SiteData, options Options, now time.Time) string {
	summary := Summarize(data.Rows)

	p := &page{}
	writeHeader(p, data, options, now)
	writeSalesGrid(p, summary)
	writeSalesBlock(p, summary.Totals)
	writePartners(p, summary)

	return p.String()
}

// writeHeader writes the date/time, company, site and title lines.
func writeHeader(p *page, data *types.SiteData, options Options, now time.Time) {
	p.add(rjust("DATE: "+now.Format("02/01/2006"), PageWidth))
	p.add(rjust("TIME: "+now.Format("03:04 PM"), PageWidth))
	p.add("")
	p.add(center(options.CompanyName, PageWidth))
	p.add(center(fmt.Sprintf("%s - %s", data.SiteID, data.SiteName), PageWidth))
	p.add("")
	p.add(center(options.Title, PageWidth))
	p.add(center(fmt.Sprintf("From Date : %s    To Date : %s", data.FromDate, data.ToDate), PageWidth))
	p.add(rule(PageWidth))

	p.add("|" + center(" SALES ", groupWidth) +
		"|" + center(" RETURNS ", groupWidth) +
		"|" + center(" NET ", groupWidth) + "|")
	p.add(rule(PageWidth))

	p.add(fmt.Sprintf("%-17s |%8s |%12s |%12s |%12s |%6s |%12s |%12s |%12s |%6s |%12s |%12s |%12s |",
		"BILLTYPE",
		"NO", "AMT", "DISC", "NET",
		"NO", "AMT", "DISC", "NET",
		"NO", "AMT", "DISC", "NET",
	))
	p.add(rule(PageWidth))
}

// writeSalesGrid writes one row per bill type followed by the totals row.
func writeSalesGrid(p *page, summary Summary) {
	for _, line := range summary.Sales {
		p.add(salesRow(line.BillType, line))
	}
	p.add(rule(PageWidth))

	p.add(salesRow("TOTALAMOUNT   :", summary.Totals.Sales))
	p.add(rule(PageWidth))
}

func salesRow(label string, l SalesLine) string {
	return fmt.Sprintf("%-17s |%8d |%12s |%12s |%12s |%6d |%12s |%12s |%12s |%6d |%12s |%12s |%12s |",
		label,
		l.SaleCount,
		formatCurrency(l.SaleAmount),
		formatCurrency(l.SaleDisc),
		formatCurrency(l.SaleNet),
		l.ReturnCount,
		formatCurrency(l.ReturnAmount),
		formatCurrency(l.ReturnDisc),
		formatCurrency(l.ReturnNet),
		l.OverallCount(),
		formatCurrency(l.OverallAmount()),
		formatCurrency(l.OverallDisc()),
		formatCurrency(l.OverallNet()),
	)
}

// writeSalesBlock writes the SALES :- and HealingCard Collections blocks.
// Paid in/out and the collection figures are printed as fixed literals.
func writeSalesBlock(p *page, totals ReportTotals) {
	p.add("")
	p.add("SALES :-")
	p.add("")
	p.add("       Net Cash Sales        : " + formatCurrency(totals.NetCashSales))
	p.add("       Total Paid In         :       0.00")
	p.add("       Total Paid out        :       0.00")
	p.add("       Total Sales           : " + formatCurrency(totals.TotalSales))

	p.add("HealingCard Collections:")
	p.add(fmt.Sprintf("     Cash Collections        : %9s", "0"))
	p.add(fmt.Sprintf("     Credit Card Collections : %9s", "0"))
	p.add(fmt.Sprintf("     Total Collection        : %9s", "0"))
	p.add("Total Cash Amount            : " + formatCurrency(totals.TotalSales) + " ")
	p.add("")
	// One dash short of the page width in every report issued so far.
	p.add(rule(PageWidth - 1))
}

// writePartners writes the Partner Program Summary section.
func writePartners(p *page, summary Summary) {
	p.add("")
	p.add("Partner Program Summary  :")
	p.add(" slno| Name                                     |     NoInv        |    Amount    |")
	p.add(rule(PageWidth))

	for i, partner := range summary.Partners {
		p.add(fmt.Sprintf("%6d | %-38s |     %12d | %12s |",
			i+1, partner.Name, partner.BillCount, formatCurrency(partner.Amount)))
	}

	p.addWidth(rule(PartnerRuleWidth), PartnerRuleWidth)
	p.add(fmt.Sprintf("      TOTAL AMOUNT:                    %27d | %9s |",
		summary.Totals.PartnerBillCount, formatCurrency(summary.Totals.PartnerAmount)))
	p.addWidth(rule(PartnerRuleWidth), PartnerRuleWidth)
}

// =============================================================================
// PAGE
// =============================================================================

// page accumulates fixed-width lines.
type page struct {
	lines []string
}

// add appends a line fixed to PageWidth.
func (p *page) add(line string) {
	p.addWidth(line, PageWidth)
}

// addWidth appends a line fixed to width.
func (p *page) addWidth(line string, width int) {
	p.lines = append(p.lines, fixLine(line, width))
}

// String joins the lines with "\n". There is no trailing newline.
func (p *page) String() string {
	return strings.Join(p.lines, "\n")
}
