/*
store.go - Persistence interface for groups, promoters, and monthly records

PURPOSE:
  Defines the interface between the derivation/session logic and the
  database. The store is the sole source of truth; everything the session
  holds in memory is a cache for the currently selected (group, year,
  month) and is refetched whenever the selection changes.

UPSERT CONTRACT:
  UpsertMonthlyRecord is keyed on the UNIQUE(promoter_id, year, month)
  constraint and returns the stored row (authoritative id and fields).
  Re-issuing the same upsert is a no-op write - safe to retry. This is the
  engine's only cross-session consistency mechanism; there is no
  client-side locking.

SOFT DELETE CONTRACT:
  SetLeaveDate is the only "removal" operation. No method deletes promoter
  or record rows; history for months before the leave month stays intact.

IMPLEMENTATIONS:
  - store/sqlite:  production SQLite store
  - roster/store:  in-memory store for tests and demos
*/
package roster

import (
	"context"
	"time"
)

// Store handles persistence for the roster engine.
type Store interface {
	// GetGroup returns a group by id, or ErrGroupNotFound.
	GetGroup(ctx context.Context, groupID string) (*Group, error)

	// ListGroups returns all groups ordered by creation time.
	ListGroups(ctx context.Context) ([]Group, error)

	// InsertGroup persists a new group, assigning ID and CreatedAt.
	InsertGroup(ctx context.Context, g *Group) error

	// ListPromoters returns ALL promoters of a group, including departed
	// ones. Membership-as-of-month is derived by ActiveRoster, never in SQL.
	ListPromoters(ctx context.Context, groupID string) ([]Promoter, error)

	// GetPromoter returns a promoter by id, or ErrPromoterNotFound.
	GetPromoter(ctx context.Context, promoterID string) (*Promoter, error)

	// InsertPromoter persists a new promoter, assigning ID and CreatedAt.
	InsertPromoter(ctx context.Context, p *Promoter) error

	// UpdatePromoter updates name, phone, and UPI id.
	UpdatePromoter(ctx context.Context, p *Promoter) error

	// SetLeaveDate soft-deletes a promoter as of the given date.
	SetLeaveDate(ctx context.Context, promoterID string, leaveDate time.Time) error

	// ListMonthlyRecords returns the records of the given promoters for
	// one (year, month). Unknown promoter ids simply yield no rows.
	ListMonthlyRecords(ctx context.Context, promoterIDs []string, year, month int) ([]MonthlyRecord, error)

	// InsertMonthlyRecord persists a new record, assigning ID. Returns
	// ErrDuplicateRecord if one already exists for the month.
	InsertMonthlyRecord(ctx context.Context, r *MonthlyRecord) error

	// UpdateRecordDays sets the days of an existing record.
	UpdateRecordDays(ctx context.Context, recordID string, days int) error

	// UpsertMonthlyRecord writes a record keyed on
	// (promoter_id, year, month) and returns the stored row. If r.ID names
	// an existing row the write is an update; sentinel (temp-) ids must be
	// cleared by the caller before upserting.
	UpsertMonthlyRecord(ctx context.Context, r MonthlyRecord) (*MonthlyRecord, error)

	// IsAdmin checks membership in the admins table.
	IsAdmin(ctx context.Context, userID string) (bool, error)

	// Close releases store resources.
	Close() error
}
