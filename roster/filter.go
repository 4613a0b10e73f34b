/*
filter.go - Search and days/payment filters over the merged view

PURPOSE:
  Narrows the merged member list after derivation. Both filters are pure
  functions of their inputs and are re-applied in full whenever the merged
  list, query, mode, or custom value changes - the filtered view is never
  incrementally patched, so it cannot drift from its inputs.

COMPOSITION:
  Search -> DaysPayment. Apply combines both in that order.

FAIL-OPEN CUSTOM MODE:
  FilterCustom matches an exact day count parsed from a free-text value.
  If the value fails to parse, the filter passes everything through
  unfiltered rather than hiding the whole roster behind a typo.
*/
package roster

import (
	"strconv"
	"strings"
)

// FilterMode selects the days/payment predicate. The string values are the
// wire/UI values, so modes round-trip through query parameters unchanged.
type FilterMode string

const (
	FilterAll        FilterMode = "all"
	FilterPaid       FilterMode = "paid"
	FilterUnpaid     FilterMode = "unpaid"
	FilterZeroDays   FilterMode = "0"
	FilterDays1To10  FilterMode = "1-10"
	FilterDays11To20 FilterMode = "11-20"
	FilterDays21To30 FilterMode = "21-30"
	FilterCustom     FilterMode = "custom"
)

// Search returns the members whose name, phone, or UPI id contains the
// query, case-insensitively. Absent fields never match. An empty query
// matches everything.
func Search(members []MergedMember, query string) []MergedMember {
	if query == "" {
		return members
	}
	q := strings.ToLower(query)

	out := make([]MergedMember, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Phone), q) ||
			(m.UPIID != nil && strings.Contains(strings.ToLower(*m.UPIID), q)) {
			out = append(out, m)
		}
	}
	return out
}

// FilterDays returns the members matching the days/payment mode.
// customDays is only consulted in FilterCustom mode; an unparsable value
// fails open. Unknown modes behave like FilterAll.
func FilterDays(members []MergedMember, mode FilterMode, customDays string) []MergedMember {
	pred := daysPredicate(mode, customDays)
	if pred == nil {
		return members
	}

	out := make([]MergedMember, 0, len(members))
	for _, m := range members {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// Apply composes Search then FilterDays.
func Apply(members []MergedMember, query string, mode FilterMode, customDays string) []MergedMember {
	return FilterDays(Search(members, query), mode, customDays)
}

// daysPredicate returns nil when the mode passes everything through.
func daysPredicate(mode FilterMode, customDays string) func(MergedMember) bool {
	switch mode {
	case FilterPaid:
		return func(m MergedMember) bool { return m.PaymentCompleted }
	case FilterUnpaid:
		return func(m MergedMember) bool { return !m.PaymentCompleted }
	case FilterZeroDays:
		return func(m MergedMember) bool { return m.Days == 0 }
	case FilterDays1To10:
		return func(m MergedMember) bool { return m.Days >= 1 && m.Days <= 10 }
	case FilterDays11To20:
		return func(m MergedMember) bool { return m.Days >= 11 && m.Days <= 20 }
	case FilterDays21To30:
		return func(m MergedMember) bool { return m.Days >= 21 && m.Days <= 30 }
	case FilterCustom:
		n, err := strconv.Atoi(strings.TrimSpace(customDays))
		if err != nil {
			return nil // fail open
		}
		return func(m MergedMember) bool { return m.Days == n }
	default: // FilterAll and anything unrecognized
		return nil
	}
}
