/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them through Handler.validate before touching domain logic. Phone and
  UPI ID are required on member writes because the whole point of a
  roster entry is being able to pay the member.

SEE ALSO:
  - handlers.go: Uses these types
  - roster/types.go: Domain types these map from
*/
package api

import (
	"time"

	"github.com/adsparkle/promoter-engine/roster"
)

// =============================================================================
// GROUP TYPES
// =============================================================================

// GroupDTO represents a promoter group in API responses.
type GroupDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DailyRate   string `json:"daily_rate,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateGroupRequest is the request to create a group.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	DailyRate   string `json:"daily_rate"`
}

// =============================================================================
// MEMBER TYPES
// =============================================================================

// MemberDTO is one merged roster row: the promoter plus their payment
// state for the selected month.
type MemberDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	UPIID            string `json:"upi_id,omitempty"`
	JoinDate         string `json:"join_date,omitempty"`
	LeaveDate        string `json:"leave_date,omitempty"`
	Days             int    `json:"days_worked"`
	PaymentCompleted bool   `json:"payment_completed"`
	RecordID         string `json:"record_id,omitempty"`
}

// AddMemberRequest is the request to enroll a member in the selected month.
type AddMemberRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone" validate:"required"`
	UPIID string `json:"upi_id" validate:"required"`
	Days  int    `json:"days_worked" validate:"gte=0,lte=31"`
}

// UpdateMemberRequest is the request to edit a member's fields and days.
type UpdateMemberRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone" validate:"required"`
	UPIID string `json:"upi_id" validate:"required"`
	Days  int    `json:"days_worked" validate:"gte=0,lte=31"`
}

// ToggleRequest flips a member's payment status for the selected month.
// Completed is a pointer so that a missing field fails validation instead
// of silently meaning false.
type ToggleRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// =============================================================================
// ROSTER TYPES
// =============================================================================

// RosterResponse is the merged, filtered roster for one group and month.
type RosterResponse struct {
	GroupID string      `json:"group_id"`
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Members []MemberDTO `json:"members"`
	Total   int         `json:"total"`
}

// PayLinkResponse carries a UPI deep link for a member.
type PayLinkResponse struct {
	PromoterID string `json:"promoter_id"`
	Link       string `json:"link"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	Scenario string `json:"scenario"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toGroupDTO(g roster.Group) GroupDTO {
	dto := GroupDTO{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
	}
	if g.Description != nil {
		dto.Description = *g.Description
	}
	if g.HasRate() {
		dto.DailyRate = g.DailyRate.String()
	}
	return dto
}

func toMemberDTO(m roster.MergedMember) MemberDTO {
	dto := MemberDTO{
		ID:               m.ID,
		Name:             m.Name,
		Phone:            m.Phone,
		Days:             m.Days,
		PaymentCompleted: m.PaymentCompleted,
		RecordID:         m.RecordID,
	}
	if m.UPIID != nil {
		dto.UPIID = *m.UPIID
	}
	if m.JoinDate != nil {
		dto.JoinDate = m.JoinDate.Format("2006-01-02")
	}
	if m.LeaveDate != nil {
		dto.LeaveDate = m.LeaveDate.Format("2006-01-02")
	}
	return dto
}

func toMemberDTOs(members []roster.MergedMember) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = toMemberDTO(m)
	}
	return dtos
}
