/*
roster.go - Active-roster derivation and record merging

PURPOSE:
  Implements the two derivation steps at the heart of the engine:

  1. ActiveRoster: which of a group's promoters count toward a month,
     given their join/leave dates.
  2. Merge: join the active promoters with the month's records into the
     per-member view the UI renders.

MEMBERSHIP RULE (exact):
  selectedYM = MonthKey(year, month)
  - nil JoinDate               -> always include
  - joinYM  > selectedYM       -> exclude (had not yet joined)
  - leaveYM <= selectedYM      -> exclude (leave month is first inactive month)
  - otherwise                  -> include

  The asymmetry is intentional: the join month itself is INCLUDED, the
  leave month itself is EXCLUDED. LeaveDate is always written as the first
  day of the month from which the member no longer counts, and this filter
  is the single place that interprets it.

SEE ALSO:
  - monthkey.go: MonthKey definition
  - filter.go:   search and days/payment narrowing applied after merging
*/
package roster

// ActiveInMonth reports whether a promoter counts toward (year, month).
func ActiveInMonth(p Promoter, year, month int) bool {
	if p.JoinDate == nil {
		return true
	}

	selectedYM := MonthKey(year, month)
	if MonthKeyOf(*p.JoinDate) > selectedYM {
		return false
	}
	if p.LeaveDate != nil && MonthKeyOf(*p.LeaveDate) <= selectedYM {
		return false
	}
	return true
}

// ActiveRoster returns the subset of promoters active in (year, month),
// preserving input order.
func ActiveRoster(promoters []Promoter, year, month int) []Promoter {
	active := make([]Promoter, 0, len(promoters))
	for _, p := range promoters {
		if ActiveInMonth(p, year, month) {
			active = append(active, p)
		}
	}
	return active
}

// Merge joins active promoters with the month's records by promoter id.
// Output order follows the promoter list (stable). Promoters without a
// record get Days=0, PaymentCompleted=false, RecordID="".
//
// Records are indexed first so merging is O(P+M). At most one record per
// promoter exists for a month; a later duplicate would be a store-invariant
// violation and the first one wins.
func Merge(active []Promoter, records []MonthlyRecord) []MergedMember {
	byPromoter := make(map[string]MonthlyRecord, len(records))
	for _, r := range records {
		if _, ok := byPromoter[r.PromoterID]; !ok {
			byPromoter[r.PromoterID] = r
		}
	}

	members := make([]MergedMember, len(active))
	for i, p := range active {
		m := MergedMember{Promoter: p}
		if r, ok := byPromoter[p.ID]; ok {
			m.Days = r.Days
			m.PaymentCompleted = r.PaymentCompleted
			m.RecordID = r.ID
		}
		members[i] = m
	}
	return members
}
