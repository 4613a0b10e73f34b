/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates groups, promoters,
	and monthly records that demonstrate specific features.

AVAILABLE SCENARIOS:

	small-team:     One group, a handful of active promoters, mixed
	                payment states for the current month
	churn:          Joins and leaves spread over several months, so
	                switching the selected month visibly reshapes the
	                roster

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario": "small-team"}

NOTE:

	Scenarios add data on top of whatever is in the store. Only use in
	development/demo environments.

SEE ALSO:
  - server.go: Scenario routes
*/
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adsparkle/promoter-engine/roster"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "One group with five promoters and mixed payment states",
	},
	{
		ID:          "churn",
		Name:        "Joins and Leaves",
		Description: "Promoters joining and leaving across several months",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario populates the store with a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	var err error
	switch req.Scenario {
	case "small-team":
		err = loadSmallTeamScenario(r.Context(), h.Store)
	case "churn":
		err = loadChurnScenario(r.Context(), h.Store)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario: "+req.Scenario, nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.Scenario})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadSmallTeamScenario(ctx context.Context, store roster.Store) error {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	desc := "Field promotion team for the downtown region"
	g := roster.Group{
		Name:        "Downtown Promoters",
		Description: &desc,
		DailyRate:   decimal.NewFromInt(400),
	}
	if err := store.InsertGroup(ctx, &g); err != nil {
		return err
	}

	join := roster.StartOfMonth(year, month).AddDate(0, -3, 0)
	members := []struct {
		name, phone, upiID string
		days               int
		paid               bool
	}{
		{"Asha Verma", "9876500001", "asha@upi", 22, true},
		{"Ravi Kumar", "9876500002", "ravi@upi", 18, false},
		{"Meena Joshi", "9876500003", "meena@upi", 0, false},
		{"Sunil Patil", "9876500004", "sunil@upi", 25, true},
		{"Divya Nair", "9876500005", "", 11, false},
	}

	for _, m := range members {
		p := roster.Promoter{
			GroupID:  g.ID,
			Name:     m.name,
			Phone:    m.phone,
			JoinDate: &join,
		}
		if m.upiID != "" {
			upiID := m.upiID
			p.UPIID = &upiID
		}
		if err := store.InsertPromoter(ctx, &p); err != nil {
			return err
		}
		rec := roster.MonthlyRecord{
			PromoterID:       p.ID,
			GroupID:          g.ID,
			Year:             year,
			Month:            month,
			Days:             m.days,
			PaymentCompleted: m.paid,
		}
		if err := store.InsertMonthlyRecord(ctx, &rec); err != nil {
			return err
		}
	}
	return nil
}

func loadChurnScenario(ctx context.Context, store roster.Store) error {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	thisMonth := roster.StartOfMonth(year, month)

	g := roster.Group{Name: "Seasonal Campaign"}
	if err := store.InsertGroup(ctx, &g); err != nil {
		return err
	}

	// Offsets in months relative to the current month. A nil leave offset
	// means still active.
	months := func(offset int) *time.Time {
		t := thisMonth.AddDate(0, offset, 0)
		return &t
	}
	members := []struct {
		name, phone string
		join, leave *time.Time
	}{
		{"Old Timer", "9876510001", months(-6), nil},
		{"Left Last Month", "9876510002", months(-4), months(0)},
		{"Leaving Next Month", "9876510003", months(-2), months(1)},
		{"Joined This Month", "9876510004", months(0), nil},
		{"Joins Next Month", "9876510005", months(1), nil},
	}

	for _, m := range members {
		upiID := m.phone + "@upi"
		p := roster.Promoter{
			GroupID:   g.ID,
			Name:      m.name,
			Phone:     m.phone,
			UPIID:     &upiID,
			JoinDate:  m.join,
			LeaveDate: m.leave,
		}
		if err := store.InsertPromoter(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
