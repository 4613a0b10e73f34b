/*
members.go - Add, edit, and soft-delete member flows

PURPOSE:
  The mutation flows around the roster. Each follows the same shape:
  validate -> write(s) -> reload the roster for the current selection.
  Failures surface to the caller naming the failed action; a failed flow
  never leaves a partially-updated cache because the caches are only ever
  replaced by a full reload.

SOFT DELETE:
  RemoveMember never deletes rows. It sets leave_date to the first day of
  the selected month, which the active-roster filter interprets as "no
  longer counts from this month". History for prior months stays visible
  when those months are selected.

KNOWN GAP (add member):
  AddMember inserts the promoter and then the month's record as two
  separate writes with no compensating rollback. If the second insert
  fails, an orphaned promoter remains and renders with days=0, unpaid, on
  the next load. Accepted as-is; wrapping the pair in a transaction would
  change the store contract.
*/
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adsparkle/promoter-engine/roster"
)

// MemberParams carries the writable fields of a member. Phone and UPIID
// are required; Name is optional.
type MemberParams struct {
	Name  string
	Phone string
	UPIID string
	Days  int
}

func (p MemberParams) validate() error {
	if strings.TrimSpace(p.Phone) == "" {
		return &roster.RequiredFieldError{Field: "phone"}
	}
	if strings.TrimSpace(p.UPIID) == "" {
		return &roster.RequiredFieldError{Field: "upi_id"}
	}
	return nil
}

// AddMember enrolls a new promoter joining in the selected month and
// creates their initial monthly record, then reloads the roster.
func (s *Session) AddMember(ctx context.Context, params MemberParams) (*roster.Promoter, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	year, month, err := s.requireSelection()
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	joinDate := roster.StartOfMonth(year, month)
	upi := strings.TrimSpace(params.UPIID)
	promoter := &roster.Promoter{
		GroupID:  s.groupID,
		Name:     strings.TrimSpace(params.Name),
		Phone:    strings.TrimSpace(params.Phone),
		UPIID:    &upi,
		JoinDate: &joinDate,
	}
	if err := s.store.InsertPromoter(ctx, promoter); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	record := &roster.MonthlyRecord{
		PromoterID:       promoter.ID,
		GroupID:          s.groupID,
		Year:             year,
		Month:            month,
		Days:             params.Days,
		PaymentCompleted: false,
	}
	if err := s.store.InsertMonthlyRecord(ctx, record); err != nil {
		// Promoter row stays; see KNOWN GAP above.
		return nil, fmt.Errorf("add member record: %w", err)
	}

	slog.Info("member added",
		"group_id", s.groupID, "promoter_id", promoter.ID,
		"year", year, "month", month,
	)

	if err := s.reload(ctx); err != nil {
		return promoter, fmt.Errorf("add member reload: %w", err)
	}
	return promoter, nil
}

// UpdateMember edits a promoter's contact fields and the selected month's
// day count, creating the record lazily when none exists yet, then
// reloads the roster.
func (s *Session) UpdateMember(ctx context.Context, promoterID string, params MemberParams) error {
	if err := params.validate(); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	year, month, err := s.requireSelection()
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}

	upi := strings.TrimSpace(params.UPIID)
	promoter := &roster.Promoter{
		ID:    promoterID,
		Name:  strings.TrimSpace(params.Name),
		Phone: strings.TrimSpace(params.Phone),
		UPIID: &upi,
	}
	if err := s.store.UpdatePromoter(ctx, promoter); err != nil {
		return fmt.Errorf("update member: %w", err)
	}

	// Days live on the month's record: update in place when one exists,
	// create it lazily otherwise.
	recordID := s.recordIDFor(promoterID)
	if recordID != "" && !roster.IsTempRecordID(recordID) {
		if err := s.store.UpdateRecordDays(ctx, recordID, params.Days); err != nil {
			return fmt.Errorf("update member days: %w", err)
		}
	} else {
		record := &roster.MonthlyRecord{
			PromoterID:       promoterID,
			GroupID:          s.groupID,
			Year:             year,
			Month:            month,
			Days:             params.Days,
			PaymentCompleted: false,
		}
		if err := s.store.InsertMonthlyRecord(ctx, record); err != nil {
			return fmt.Errorf("update member days: %w", err)
		}
	}

	slog.Info("member updated", "group_id", s.groupID, "promoter_id", promoterID)

	if err := s.reload(ctx); err != nil {
		return fmt.Errorf("update member reload: %w", err)
	}
	return nil
}

// RemoveMember soft-deletes a promoter as of the first day of the
// selected month, then reloads the roster. Monthly records are untouched.
func (s *Session) RemoveMember(ctx context.Context, promoterID string) error {
	year, month, err := s.requireSelection()
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	leaveDate := roster.StartOfMonth(year, month)
	if err := s.store.SetLeaveDate(ctx, promoterID, leaveDate); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	slog.Info("member removed from month onwards",
		"group_id", s.groupID, "promoter_id", promoterID,
		"leave_date", leaveDate.Format("2006-01-02"),
	)

	if err := s.reload(ctx); err != nil {
		return fmt.Errorf("remove member reload: %w", err)
	}
	return nil
}

// recordIDFor returns the cached record id for a promoter in the current
// selection, or "".
func (s *Session) recordIDFor(promoterID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.PromoterID == promoterID {
			return r.ID
		}
	}
	return ""
}
