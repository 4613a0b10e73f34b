/*
toggle.go - Optimistic payment toggle with rollback

PURPOSE:
  Flips a member's payment_completed flag with low perceived latency
  while keeping the remote store authoritative. The operation is an
  explicit three-phase state machine:

    snapshot -> speculative apply -> commit-or-rollback

  The snapshot and the rollback are unconditional parts of the contract,
  not incidental error handling.

GUARD:
  At most one toggle in flight per member. A second request while one is
  pending returns ErrToggleInFlight - no queuing, no coalescing, first
  request wins. The guard is cleared on every exit path.

SENTINEL IDS:
  When no record exists yet for the month, the speculative apply
  synthesizes one with a temp- id so the view can render the new state
  before the write lands. Reconciliation replaces it with the
  store-returned row; rollback removes it. A sentinel id never survives
  the operation.

IDEMPOTENCE:
  Re-issuing the same toggle with the same desired state after a
  successful write is a no-op write (upsert semantics) - safe to retry.
*/
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/adsparkle/promoter-engine/roster"
)

// TogglePayment flips payment_completed for one member of the currently
// selected month and returns the authoritative stored record.
func (s *Session) TogglePayment(ctx context.Context, promoterID string, completed bool) (*roster.MonthlyRecord, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, fmt.Errorf("toggle payment: %w", roster.ErrNoMonthSelected)
	}
	if s.inFlight[promoterID] {
		s.mu.Unlock()
		return nil, fmt.Errorf("toggle payment: %w", roster.ErrToggleInFlight)
	}
	s.inFlight[promoterID] = true

	year, month := s.year, s.month

	// Phase 1: snapshot, taken before any speculative change.
	snapshot := slices.Clone(s.records)

	// Phase 2: speculative apply. Replace the member's record if one
	// exists, else synthesize a sentinel-id record carrying the new state.
	recordID := ""
	days := 0
	found := false
	for i, r := range s.records {
		if r.PromoterID == promoterID {
			recordID = r.ID
			days = r.Days
			s.records[i].PaymentCompleted = completed
			found = true
			break
		}
	}
	if !found {
		s.records = append(s.records, roster.MonthlyRecord{
			ID:               roster.TempRecordID(promoterID),
			PromoterID:       promoterID,
			GroupID:          s.groupID,
			Year:             year,
			Month:            month,
			Days:             0,
			PaymentCompleted: completed,
		})
	}
	s.mu.Unlock()

	// The guard outlives the write; clear it on every exit path so future
	// toggles stay possible.
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, promoterID)
		s.mu.Unlock()
	}()

	// Phase 3: durable write, keyed on (promoter_id, year, month). Carry
	// the real record id when known so the write is an update, never a
	// blind insert. Sentinel ids are never sent to the store.
	upsert := roster.MonthlyRecord{
		PromoterID:       promoterID,
		GroupID:          s.groupID,
		Year:             year,
		Month:            month,
		Days:             days,
		PaymentCompleted: completed,
	}
	if recordID != "" && !roster.IsTempRecordID(recordID) {
		upsert.ID = recordID
	}

	stored, err := s.store.UpsertMonthlyRecord(ctx, upsert)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// Rollback: restore the pre-optimistic snapshot exactly.
		s.records = snapshot
		slog.Warn("payment toggle failed, rolled back",
			"group_id", s.groupID, "promoter_id", promoterID, "error", err)
		return nil, fmt.Errorf("toggle payment: %w", err)
	}

	// Reconcile: the store row replaces the synthesized/stale record,
	// retiring any sentinel id.
	kept := s.records[:0]
	for _, r := range s.records {
		if r.PromoterID == promoterID && r.Year == stored.Year && r.Month == stored.Month {
			continue
		}
		kept = append(kept, r)
	}
	s.records = append(kept, *stored)

	slog.Info("payment toggled",
		"group_id", s.groupID, "promoter_id", promoterID,
		"year", year, "month", month, "completed", completed,
	)
	return stored, nil
}

// ToggleInFlight reports whether a toggle is pending for the member.
// The UI uses this to disable the control while a write is outstanding.
func (s *Session) ToggleInFlight(promoterID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[promoterID]
}
