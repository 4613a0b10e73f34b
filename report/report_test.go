package report_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsparkle/promoter-engine/report"
	"github.com/adsparkle/promoter-engine/roster"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func member(name, upiID string, days int, paid bool) roster.MergedMember {
	m := roster.MergedMember{
		Promoter:         roster.Promoter{ID: name, Name: name, Phone: "900" + name},
		Days:             days,
		PaymentCompleted: paid,
	}
	if upiID != "" {
		m.UPIID = &upiID
	}
	return m
}

func ratedGroup(rate int64) roster.Group {
	return roster.Group{
		ID:        "g1",
		Name:      "Downtown Promoters",
		DailyRate: decimal.NewFromInt(rate),
	}
}

// =============================================================================
// BUILD TESTS
// =============================================================================

func TestBuild_SplitsSectionsInRosterOrder(t *testing.T) {
	members := []roster.MergedMember{
		member("Asha", "asha@upi", 22, true),
		member("Ravi", "ravi@upi", 18, false),
		member("Meena", "", 0, false),
		member("Sunil", "sunil@upi", 25, true),
	}

	r := report.Build(roster.Group{Name: "G"}, 2025, 3, members)

	require.Len(t, r.Paid, 2)
	assert.Equal(t, "Asha", r.Paid[0].Name)
	assert.Equal(t, "Sunil", r.Paid[1].Name)
	assert.Equal(t, 1, r.Paid[0].Serial)
	assert.Equal(t, 2, r.Paid[1].Serial)

	require.Len(t, r.Unpaid, 2)
	assert.Equal(t, "Ravi", r.Unpaid[0].Name)
	assert.Equal(t, 1, r.Unpaid[0].Serial)

	assert.Equal(t, 4, r.TotalMembers)
	assert.Equal(t, 2, r.TotalPaid)
	assert.Equal(t, 2, r.TotalUnpaid)
}

func TestBuild_MissingFieldsRenderAsNA(t *testing.T) {
	r := report.Build(roster.Group{Name: "G"}, 2025, 3, []roster.MergedMember{
		member("NoUPI", "", 5, false),
	})

	require.Len(t, r.Unpaid, 1)
	assert.Equal(t, "N/A", r.Unpaid[0].UPIID)
}

func TestBuild_AmountsFromDailyRate(t *testing.T) {
	// GIVEN: A group paying 400 per day
	// THEN: Amounts and subtotals follow days x rate exactly

	members := []roster.MergedMember{
		member("Asha", "a@upi", 10, true),
		member("Ravi", "r@upi", 3, false),
	}

	r := report.Build(ratedGroup(400), 2025, 3, members)

	require.True(t, r.HasAmounts)
	assert.True(t, r.Paid[0].Amount.Equal(decimal.NewFromInt(4000)))
	assert.True(t, r.PaidAmount.Equal(decimal.NewFromInt(4000)))
	assert.True(t, r.UnpaidAmount.Equal(decimal.NewFromInt(1200)))
	assert.True(t, r.TotalAmount.Equal(decimal.NewFromInt(5200)))
}

func TestBuild_FractionalRateStaysExact(t *testing.T) {
	rate, err := decimal.NewFromString("333.33")
	require.NoError(t, err)
	g := roster.Group{Name: "G", DailyRate: rate}

	r := report.Build(g, 2025, 3, []roster.MergedMember{
		member("Asha", "a@upi", 3, false),
	})

	assert.Equal(t, "999.99", r.UnpaidAmount.StringFixed(2))
}

func TestBuild_NoRateNoAmounts(t *testing.T) {
	r := report.Build(roster.Group{Name: "G"}, 2025, 3, []roster.MergedMember{
		member("Asha", "a@upi", 10, true),
	})
	assert.False(t, r.HasAmounts)
}

// =============================================================================
// FILENAME TESTS
// =============================================================================

func TestFilename(t *testing.T) {
	r := report.Build(ratedGroup(400), 2025, 3, nil)
	assert.Equal(t, "AdSparkle_Downtown_Promoters_March_2025_Report.csv", r.Filename())
}

func TestFilename_SanitizesGroupName(t *testing.T) {
	g := roster.Group{Name: "Team #1 (South/West)"}
	r := report.Build(g, 2025, 12, nil)
	assert.Equal(t, "AdSparkle_Team__1__South_West__December_2025_Report.csv", r.Filename())
}

// =============================================================================
// CSV TESTS
// =============================================================================

func TestWriteCSV(t *testing.T) {
	members := []roster.MergedMember{
		member("Asha", "asha@upi", 10, true),
		member("Ravi", "ravi@upi", 3, false),
	}
	r := report.Build(ratedGroup(400), 2025, 3, members)

	var buf strings.Builder
	require.NoError(t, r.WriteCSV(&buf))
	out := buf.String()

	assert.Contains(t, out, "Payment Report,Downtown Promoters")
	assert.Contains(t, out, "Period,March 2025")
	assert.Contains(t, out, "Paid Members")
	assert.Contains(t, out, "Unpaid Members")
	assert.Contains(t, out, "1,Asha,900Asha,asha@upi,10,Paid,4000.00")
	assert.Contains(t, out, "1,Ravi,900Ravi,ravi@upi,3,Pending,1200.00")
	assert.Contains(t, out, "Subtotal,4000.00")
	assert.Contains(t, out, "Total Members,2")
	assert.Contains(t, out, "Total Amount,5200.00")
}

func TestWriteCSV_OmitsEmptySection(t *testing.T) {
	r := report.Build(ratedGroup(400), 2025, 3, []roster.MergedMember{
		member("Asha", "a@upi", 10, true),
	})

	var buf strings.Builder
	require.NoError(t, r.WriteCSV(&buf))
	assert.NotContains(t, buf.String(), "Unpaid Members")
}
