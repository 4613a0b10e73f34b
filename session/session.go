/*
Package session holds the per-group view session.

PURPOSE:
  A Session owns the in-memory caches (active promoters and monthly
  records) for one group and the currently selected (year, month), and
  exposes the four operations the surrounding UI drives:

    LoadRoster      fetch, derive, and merge the active roster for a month
    TogglePayment   optimistic payment flip with rollback (toggle.go)
    AddMember / UpdateMember / RemoveMember (members.go)

  The remote store stays the sole source of truth. The caches are valid
  only for the current selection and are refetched whenever it changes;
  nothing here is a process-wide singleton - callers create one Session
  per group view.

STALE LOAD HANDLING:
  Loads are not cancelled. Each load takes a generation number when it
  starts; when it finishes, the result is installed only if no newer load
  has been issued since. A late-arriving response for an old selection is
  discarded with ErrStaleLoad, so the newest request's results are the
  ones ultimately rendered.

CONCURRENCY:
  One mutex serializes cache mutations. Store calls happen outside the
  lock so a slow fetch never blocks reads of the previous view.

SEE ALSO:
  - roster: the pure derivation functions this session feeds
  - toggle.go:  PaymentToggleController
  - members.go: add/edit/soft-delete flows
*/
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adsparkle/promoter-engine/roster"
)

// Session is the view session for one group.
type Session struct {
	store   roster.Store
	groupID string

	mu        sync.Mutex
	year      int
	month     int
	loaded    bool
	promoters []roster.Promoter      // active set for the selection
	records   []roster.MonthlyRecord // records for the selection
	loadGen   uint64
	inFlight  map[string]bool // promoter ids with a toggle in flight
}

// New creates a session for a group backed by the given store.
func New(store roster.Store, groupID string) *Session {
	return &Session{
		store:    store,
		groupID:  groupID,
		inFlight: make(map[string]bool),
	}
}

// GroupID returns the group this session views.
func (s *Session) GroupID() string { return s.groupID }

// Selection returns the currently selected (year, month), ok=false when
// no roster has been loaded yet.
func (s *Session) Selection() (year, month int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year, s.month, s.loaded
}

// LoadRoster fetches the group's promoters and the month's records, runs
// the active-roster derivation, installs the caches, and returns the
// merged view. A load superseded by a newer one returns ErrStaleLoad and
// installs nothing. A failed load leaves the session in the "not loaded"
// state rather than showing stale data.
func (s *Session) LoadRoster(ctx context.Context, year, month int) ([]roster.MergedMember, error) {
	if !roster.ValidMonth(month) {
		return nil, fmt.Errorf("load roster: %w", roster.ErrInvalidMonth)
	}

	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	s.loaded = false
	s.mu.Unlock()

	promoters, err := s.store.ListPromoters(ctx, s.groupID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	active := roster.ActiveRoster(promoters, year, month)

	ids := make([]string, len(active))
	for i, p := range active {
		ids[i] = p.ID
	}
	records, err := s.store.ListMonthlyRecords(ctx, ids, year, month)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		slog.Debug("discarding stale roster load",
			"group_id", s.groupID, "year", year, "month", month)
		return nil, roster.ErrStaleLoad
	}

	s.year = year
	s.month = month
	s.promoters = active
	s.records = records
	s.loaded = true

	slog.Info("roster loaded",
		"group_id", s.groupID,
		"year", year, "month", month,
		"active", len(active), "records", len(records),
	)
	return roster.Merge(active, records), nil
}

// Roster derives the filtered view from the current caches. It is a pure
// function of session state plus the filter arguments and returns nil
// when no roster is loaded.
func (s *Session) Roster(query string, mode roster.FilterMode, customDays string) []roster.MergedMember {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil
	}
	merged := roster.Merge(s.promoters, s.records)
	return roster.Apply(merged, query, mode, customDays)
}

// reload re-runs LoadRoster for the current selection. Mutating flows call
// this after a successful write so the view reflects the store.
func (s *Session) reload(ctx context.Context) error {
	s.mu.Lock()
	year, month := s.year, s.month
	s.mu.Unlock()

	if year == 0 || month == 0 {
		return roster.ErrNoMonthSelected
	}
	_, err := s.LoadRoster(ctx, year, month)
	return err
}

// requireSelection returns the selected (year, month) or ErrNoMonthSelected.
func (s *Session) requireSelection() (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.year == 0 || s.month == 0 {
		return 0, 0, roster.ErrNoMonthSelected
	}
	return s.year, s.month, nil
}
