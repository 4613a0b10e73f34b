/*
Package roster provides the core roster derivation engine.

PURPOSE:
  This package contains the domain types and pure algorithms for deriving
  a group's "active roster" for a calendar month: which promoters count
  toward the month, merged with that month's attendance/payment rows, and
  narrowed by search and days/payment filters.

KEY CONCEPTS IN THIS FILE (types.go):
  - Group: A named collection of promoters managed together
  - Promoter: A person enrolled for payment tracking within a group
  - MonthlyRecord: One promoter's attendance/payment state for one month
  - MergedMember: The derived per-month view (never persisted)

DESIGN PRINCIPLES:
  1. Explicit shapes: rows are structs with nullable fields as pointers,
     never dynamically-extensible maps
  2. Purity: everything in this package is a function of its inputs; all
     durable state lives behind the Store interface
  3. One owner for membership rules: "who counts in month M" is answered
     only by ActiveRoster - nothing else re-implements join/leave logic

SEE ALSO:
  - monthkey.go: (year, month) ordering and date helpers
  - roster.go:   active-roster filter and record merger
  - filter.go:   search and days/payment filters
  - store.go:    persistence interface
*/
package roster

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// GROUP
// =============================================================================

// Group is a named collection of promoters managed together.
// Groups are referenced by id everywhere else in the engine.
type Group struct {
	ID          string
	Name        string
	Description *string

	// DailyRate is the payout per attended day, used by report generation.
	// Zero means no rate is configured and reports omit amounts.
	DailyRate decimal.Decimal

	CreatedAt time.Time
}

// HasRate reports whether a payout rate is configured for the group.
func (g Group) HasRate() bool { return g.DailyRate.IsPositive() }

// =============================================================================
// PROMOTER
// =============================================================================

// Promoter is a person enrolled for payment tracking within a group.
//
// JoinDate is the calendar date from which the promoter counts toward any
// month's roster. LeaveDate, if set, is the first date from which the
// promoter no longer counts: the leave month itself is the first inactive
// month. A nil JoinDate means "always was active".
//
// Rows are never destroyed by the engine. Removal is a soft delete that
// sets LeaveDate, preserving history for prior months.
type Promoter struct {
	ID      string
	GroupID string
	Name    string
	Phone   string
	UPIID   *string

	JoinDate  *time.Time
	LeaveDate *time.Time

	CreatedAt time.Time
}

// =============================================================================
// MONTHLY RECORD
// =============================================================================

// MonthlyRecord is one promoter's attendance/payment state for exactly one
// (year, month) pair. At most one record exists per
// (promoter_id, year, month); the store enforces this via upsert-on-conflict,
// not application-level locking.
type MonthlyRecord struct {
	ID               string
	PromoterID       string
	GroupID          string
	Year             int
	Month            int
	Days             int
	PaymentCompleted bool
}

// TempRecordIDPrefix marks records synthesized by an optimistic update
// before the durable write completes. Sentinel ids are never persisted;
// reconciliation replaces them with the store-assigned row.
const TempRecordIDPrefix = "temp-"

// TempRecordID returns the sentinel record id for a promoter.
func TempRecordID(promoterID string) string { return TempRecordIDPrefix + promoterID }

// IsTempRecordID reports whether id is an optimistic-update sentinel.
func IsTempRecordID(id string) bool {
	return len(id) >= len(TempRecordIDPrefix) && id[:len(TempRecordIDPrefix)] == TempRecordIDPrefix
}

// =============================================================================
// MERGED MEMBER - Derived view, never persisted
// =============================================================================

// MergedMember is a promoter joined with the selected month's record.
// Days, PaymentCompleted, and RecordID come from the matching MonthlyRecord
// and default to zero values (RecordID "") when no record exists yet.
//
// MergedMember is a read view computed fresh on every roster load. It is
// never a source of truth.
type MergedMember struct {
	Promoter

	Days             int
	PaymentCompleted bool
	RecordID         string // empty when no record exists for the month
}

// HasRecord reports whether a durable record backs this member's month.
func (m MergedMember) HasRecord() bool {
	return m.RecordID != "" && !IsTempRecordID(m.RecordID)
}
