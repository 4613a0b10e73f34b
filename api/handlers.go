/*
handlers.go - HTTP API handlers for the promoter payment tracker

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic in roster/ and
  session/.

ENDPOINTS:
  Groups:
    GET    /api/groups                      List all groups
    POST   /api/groups                      Create group
    GET    /api/groups/{id}                 Get group details

  Roster:
    GET    /api/groups/{id}/roster          Merged roster for a month
                                            (?year&month&q&filter&days)
    POST   /api/groups/{id}/members         Enroll member in selected month
    PUT    /api/groups/{id}/members/{pid}   Edit member fields and days
    DELETE /api/groups/{id}/members/{pid}   Soft-remove from selected month

  Payments:
    POST   /api/groups/{id}/payments/{pid}  Toggle payment status
    GET    /api/groups/{id}/report          CSV payment report
    GET    /api/members/{pid}/paylink       UPI deep link

  Scenarios:
    POST   /api/scenarios/load              Load demo data (dev)

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - sessions: One session.Session per group, created on first use. The
    session carries the month selection, roster caches, and the
    in-flight toggle guards, so concurrent requests for the same group
    see consistent optimistic-update behavior.
  - validate: Shared validator instance for request DTOs

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Resolve the group session and month selection
  4. Call domain logic (session, report, upi)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Group, member, or record not found
  - 409: Payment toggle already in flight for the member
  - 500: Store errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Admin check middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/adsparkle/promoter-engine/report"
	"github.com/adsparkle/promoter-engine/roster"
	"github.com/adsparkle/promoter-engine/session"
	"github.com/adsparkle/promoter-engine/upi"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store roster.Store

	mu       sync.Mutex
	sessions map[string]*session.Session

	validate *validator.Validate
}

// NewHandler creates a new handler with the given store.
func NewHandler(store roster.Store) *Handler {
	return &Handler{
		Store:    store,
		sessions: make(map[string]*session.Session),
		validate: validator.New(),
	}
}

// sessionFor returns the session for a group, creating it on first use.
// The group must exist.
func (h *Handler) sessionFor(r *http.Request, groupID string) (*session.Session, error) {
	h.mu.Lock()
	if s, ok := h.sessions[groupID]; ok {
		h.mu.Unlock()
		return s, nil
	}
	h.mu.Unlock()

	// Verify the group before caching a session for it.
	if _, err := h.Store.GetGroup(r.Context(), groupID); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[groupID]; ok {
		return s, nil
	}
	s := session.New(h.Store, groupID)
	h.sessions[groupID] = s
	return s, nil
}

// selectMonth parses the year and month query parameters and loads the
// session's roster for that month when the selection changed.
func (h *Handler) selectMonth(r *http.Request, s *session.Session) error {
	year, month, err := parseMonthQuery(r)
	if err != nil {
		return err
	}
	if y, m, ok := s.Selection(); ok && y == year && m == month {
		return nil
	}
	_, err = s.LoadRoster(r.Context(), year, month)
	return err
}

// =============================================================================
// GROUP HANDLERS
// =============================================================================

// ListGroups returns all groups.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Store.ListGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groups", err)
		return
	}

	dtos := make([]GroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = toGroupDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetGroup returns a single group.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.Store.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get group", err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupDTO(*g))
}

// CreateGroup creates a new group.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	g := roster.Group{Name: req.Name}
	if req.Description != "" {
		g.Description = &req.Description
	}
	if req.DailyRate != "" {
		rate, err := decimal.NewFromString(req.DailyRate)
		if err != nil || rate.IsNegative() {
			writeError(w, http.StatusBadRequest, "Invalid daily_rate", err)
			return
		}
		g.DailyRate = rate
	}

	if err := h.Store.InsertGroup(r.Context(), &g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create group", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupDTO(g))
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// GetRoster returns the merged roster for a group and month, filtered by
// the optional q (search), filter (mode), and days (custom value) params.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFor(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to resolve group", err)
		return
	}
	if err := h.selectMonth(r, s); err != nil {
		writeDomainError(w, "Failed to load roster", err)
		return
	}

	q := r.URL.Query()
	mode := roster.FilterMode(q.Get("filter"))
	if mode == "" {
		mode = roster.FilterAll
	}
	members := s.Roster(q.Get("q"), mode, q.Get("days"))

	year, month, _ := s.Selection()
	writeJSON(w, http.StatusOK, RosterResponse{
		GroupID: s.GroupID(),
		Year:    year,
		Month:   month,
		Members: toMemberDTOs(members),
		Total:   len(members),
	})
}

// AddMember enrolls a new member joining in the selected month.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFor(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to resolve group", err)
		return
	}
	if err := h.selectMonth(r, s); err != nil {
		writeDomainError(w, "Failed to load roster", err)
		return
	}

	var req AddMemberRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	p, err := s.AddMember(r.Context(), session.MemberParams{
		Name:  req.Name,
		Phone: req.Phone,
		UPIID: req.UPIID,
		Days:  req.Days,
	})
	if err != nil {
		writeDomainError(w, "Failed to add member", err)
		return
	}

	writeJSON(w, http.StatusCreated, MemberDTO{
		ID:       p.ID,
		Name:     p.Name,
		Phone:    p.Phone,
		UPIID:    req.UPIID,
		JoinDate: p.JoinDate.Format("2006-01-02"),
		Days:     req.Days,
	})
}

// UpdateMember edits a member's contact fields and worked days for the
// selected month.
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFor(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to resolve group", err)
		return
	}
	if err := h.selectMonth(r, s); err != nil {
		writeDomainError(w, "Failed to load roster", err)
		return
	}

	var req UpdateMemberRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err = s.UpdateMember(r.Context(), chi.URLParam(r, "pid"), session.MemberParams{
		Name:  req.Name,
		Phone: req.Phone,
		UPIID: req.UPIID,
		Days:  req.Days,
	})
	if err != nil {
		writeDomainError(w, "Failed to update member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember soft-removes a member from the selected month onward.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFor(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to resolve group", err)
		return
	}
	if err := h.selectMonth(r, s); err != nil {
		writeDomainError(w, "Failed to load roster", err)
		return
	}

	if err := s.RemoveMember(r.Context(), chi.URLParam(r, "pid")); err != nil {
		writeDomainError(w, "Failed to remove member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// TogglePayment flips a member's payment status for the selected month.
func (h *Handler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFor(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to resolve group", err)
		return
	}
	if err := h.selectMonth(r, s); err != nil {
		writeDomainError(w, "Failed to load roster", err)
		return
	}

	var req ToggleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := s.TogglePayment(r.Context(), chi.URLParam(r, "pid"), *req.Completed)
	if err != nil {
		writeDomainError(w, "Failed to toggle payment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record_id":         rec.ID,
		"promoter_id":       rec.PromoterID,
		"days_worked":       rec.Days,
		"payment_completed": rec.PaymentCompleted,
	})
}

// GetReport streams the group's monthly payment report as CSV.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	g, err := h.Store.GetGroup(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, "Failed to get group", err)
		return
	}

	s, err := h.sessionFor(r, groupID)
	if err != nil {
		writeDomainError(w, "Failed to resolve group", err)
		return
	}
	year, month, err := parseMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report period", err)
		return
	}
	members, err := s.LoadRoster(r.Context(), year, month)
	if err != nil {
		writeDomainError(w, "Failed to load roster", err)
		return
	}

	rep := report.Build(*g, year, month, members)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename()))
	if err := rep.WriteCSV(w); err != nil {
		// Headers are gone; nothing to do but log via the middleware.
		return
	}
}

// GetPayLink returns a UPI deep link for a member. The app query param
// selects the paytm variant; anything else gets the generic upi:// link.
func (h *Handler) GetPayLink(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPromoter(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeDomainError(w, "Failed to get member", err)
		return
	}

	upiID := ""
	if p.UPIID != nil {
		upiID = *p.UPIID
	}

	var link string
	if r.URL.Query().Get("app") == "paytm" {
		link, err = upi.PaytmLink(upiID, p.Name)
	} else {
		link, err = upi.PayLink(upiID, p.Name)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Member has no UPI ID", err)
		return
	}

	writeJSON(w, http.StatusOK, PayLinkResponse{PromoterID: p.ID, Link: link})
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes the 400 response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// errBadPeriod marks unparsable year/month query parameters.
var errBadPeriod = errors.New("invalid or missing year/month")

func parseMonthQuery(r *http.Request) (year, month int, err error) {
	q := r.URL.Query()
	year, err = strconv.Atoi(q.Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year %q: %w", q.Get("year"), errBadPeriod)
	}
	month, err = strconv.Atoi(q.Get("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("month %q: %w", q.Get("month"), errBadPeriod)
	}
	return year, month, nil
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, roster.ErrToggleInFlight):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, errBadPeriod):
		writeError(w, http.StatusBadRequest, message, err)
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case roster.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
