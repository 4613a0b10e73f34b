/*
Package report derives the monthly payment report for a group.

PURPOSE:
  Splits the merged roster into paid and unpaid sections (preserving the
  roster order within each), counts the summary totals, and - when the
  group carries a daily payout rate - computes per-member payable
  amounts and section subtotals with decimal arithmetic. Rendering is
  limited to CSV; visual layout belongs to the consuming frontend.

AMOUNTS:
  amount = days x group.DailyRate, computed with shopspring/decimal so
  rates like 333.33 don't accumulate float error across a large roster.
  Groups without a rate produce a report with HasAmounts=false and the
  amount columns omitted.
*/
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adsparkle/promoter-engine/roster"
)

// Entry is one member row in a report section.
type Entry struct {
	Serial int
	Name   string
	Phone  string
	UPIID  string
	Days   int
	Amount decimal.Decimal
}

// Report is the derived payment report for one group and month.
type Report struct {
	GroupName   string
	Year        int
	Month       int
	GeneratedAt time.Time

	Paid   []Entry
	Unpaid []Entry

	TotalMembers int
	TotalPaid    int
	TotalUnpaid  int

	HasAmounts   bool
	PaidAmount   decimal.Decimal
	UnpaidAmount decimal.Decimal
	TotalAmount  decimal.Decimal
}

// Build derives the report from a merged roster. Member order within each
// section follows the input order.
func Build(group roster.Group, year, month int, members []roster.MergedMember) Report {
	r := Report{
		GroupName:    group.Name,
		Year:         year,
		Month:        month,
		GeneratedAt:  time.Now().UTC(),
		TotalMembers: len(members),
		HasAmounts:   group.HasRate(),
	}

	for _, m := range members {
		e := Entry{
			Name:  m.Name,
			Phone: valueOr(m.Phone, "N/A"),
			UPIID: "N/A",
			Days:  m.Days,
		}
		if m.UPIID != nil && *m.UPIID != "" {
			e.UPIID = *m.UPIID
		}
		if r.HasAmounts {
			e.Amount = group.DailyRate.Mul(decimal.NewFromInt(int64(m.Days)))
			r.TotalAmount = r.TotalAmount.Add(e.Amount)
		}

		if m.PaymentCompleted {
			e.Serial = len(r.Paid) + 1
			r.Paid = append(r.Paid, e)
			r.PaidAmount = r.PaidAmount.Add(e.Amount)
		} else {
			e.Serial = len(r.Unpaid) + 1
			r.Unpaid = append(r.Unpaid, e)
			r.UnpaidAmount = r.UnpaidAmount.Add(e.Amount)
		}
	}

	r.TotalPaid = len(r.Paid)
	r.TotalUnpaid = len(r.Unpaid)
	return r
}

// Filename returns a download filename for the report, with the group
// name reduced to filesystem-safe characters.
func (r Report) Filename() string {
	name := r.GroupName
	if name == "" {
		name = "Group"
	}
	var b strings.Builder
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return fmt.Sprintf("AdSparkle_%s_%s_%d_Report.csv", b.String(), roster.MonthName(r.Month), r.Year)
}

// WriteCSV renders the report as CSV: a header block, the paid and unpaid
// sections, and the summary.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	write := func(fields ...string) {
		cw.Write(fields)
	}

	write("Payment Report", r.GroupName)
	write("Period", fmt.Sprintf("%s %d", roster.MonthName(r.Month), r.Year))
	write("Generated on", r.GeneratedAt.Format(time.RFC3339))
	write()

	header := []string{"#", "Name", "Phone", "UPI ID", "Days", "Status"}
	if r.HasAmounts {
		header = append(header, "Amount")
	}

	writeSection := func(title, status string, entries []Entry, subtotal decimal.Decimal) {
		if len(entries) == 0 {
			return
		}
		write(title)
		cw.Write(header)
		for _, e := range entries {
			row := []string{
				strconv.Itoa(e.Serial), e.Name, e.Phone, e.UPIID,
				strconv.Itoa(e.Days), status,
			}
			if r.HasAmounts {
				row = append(row, e.Amount.StringFixed(2))
			}
			cw.Write(row)
		}
		if r.HasAmounts {
			write("Subtotal", subtotal.StringFixed(2))
		}
		write()
	}

	writeSection("Paid Members", "Paid", r.Paid, r.PaidAmount)
	writeSection("Unpaid Members", "Pending", r.Unpaid, r.UnpaidAmount)

	write("Summary")
	write("Total Members", strconv.Itoa(r.TotalMembers))
	write("Total Paid", strconv.Itoa(r.TotalPaid))
	write("Total Unpaid", strconv.Itoa(r.TotalUnpaid))
	if r.HasAmounts {
		write("Total Amount", r.TotalAmount.StringFixed(2))
	}

	cw.Flush()
	return cw.Error()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
