// Package store provides roster.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adsparkle/promoter-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	groups    map[string]roster.Group
	promoters map[string]roster.Promoter
	records   map[string]roster.MonthlyRecord // by record id
	admins    map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		groups:    make(map[string]roster.Group),
		promoters: make(map[string]roster.Promoter),
		records:   make(map[string]roster.MonthlyRecord),
		admins:    make(map[string]bool),
	}
}

// AddAdmin registers a user id in the admins set.
func (m *Memory) AddAdmin(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[userID] = true
}

func (m *Memory) Close() error { return nil }

// =============================================================================
// GROUPS
// =============================================================================

func (m *Memory) GetGroup(_ context.Context, groupID string) (*roster.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[groupID]
	if !ok {
		return nil, roster.ErrGroupNotFound
	}
	return &g, nil
}

func (m *Memory) ListGroups(_ context.Context) ([]roster.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]roster.Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].ID < groups[j].ID
		}
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
	return groups, nil
}

func (m *Memory) InsertGroup(_ context.Context, g *roster.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	m.groups[g.ID] = *g
	return nil
}

// =============================================================================
// PROMOTERS
// =============================================================================

func (m *Memory) ListPromoters(_ context.Context, groupID string) ([]roster.Promoter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.Promoter
	for _, p := range m.promoters {
		if p.GroupID == groupID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) GetPromoter(_ context.Context, promoterID string) (*roster.Promoter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.promoters[promoterID]
	if !ok {
		return nil, roster.ErrPromoterNotFound
	}
	return &p, nil
}

func (m *Memory) InsertPromoter(_ context.Context, p *roster.Promoter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.promoters[p.ID] = *p
	return nil
}

func (m *Memory) UpdatePromoter(_ context.Context, p *roster.Promoter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.promoters[p.ID]
	if !ok {
		return roster.ErrPromoterNotFound
	}
	existing.Name = p.Name
	existing.Phone = p.Phone
	existing.UPIID = p.UPIID
	m.promoters[p.ID] = existing
	return nil
}

func (m *Memory) SetLeaveDate(_ context.Context, promoterID string, leaveDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.promoters[promoterID]
	if !ok {
		return roster.ErrPromoterNotFound
	}
	p.LeaveDate = &leaveDate
	m.promoters[promoterID] = p
	return nil
}

// =============================================================================
// MONTHLY RECORDS
// =============================================================================

func (m *Memory) ListMonthlyRecords(_ context.Context, promoterIDs []string, year, month int) ([]roster.MonthlyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(promoterIDs))
	for _, id := range promoterIDs {
		wanted[id] = true
	}

	var out []roster.MonthlyRecord
	for _, r := range m.records {
		if wanted[r.PromoterID] && r.Year == year && r.Month == month {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) InsertMonthlyRecord(_ context.Context, r *roster.MonthlyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findByKeyLocked(r.PromoterID, r.Year, r.Month) != nil {
		return roster.ErrDuplicateRecord
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	m.records[r.ID] = *r
	return nil
}

func (m *Memory) UpdateRecordDays(_ context.Context, recordID string, days int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[recordID]
	if !ok {
		return roster.ErrRecordNotFound
	}
	r.Days = days
	m.records[recordID] = r
	return nil
}

func (m *Memory) UpsertMonthlyRecord(_ context.Context, r roster.MonthlyRecord) (*roster.MonthlyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Conflict target: (promoter_id, year, month). An explicit id that
	// matches an existing row updates it directly.
	existing := m.findByKeyLocked(r.PromoterID, r.Year, r.Month)
	if existing == nil && r.ID != "" {
		if e, ok := m.records[r.ID]; ok {
			existing = &e
		}
	}

	if existing != nil {
		existing.Days = r.Days
		existing.PaymentCompleted = r.PaymentCompleted
		existing.GroupID = r.GroupID
		m.records[existing.ID] = *existing
		out := *existing
		return &out, nil
	}

	// Insert path: keep a caller-supplied id, same as the sqlite store.
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	m.records[r.ID] = r
	out := r
	return &out, nil
}

func (m *Memory) findByKeyLocked(promoterID string, year, month int) *roster.MonthlyRecord {
	for _, r := range m.records {
		if r.PromoterID == promoterID && r.Year == year && r.Month == month {
			rec := r
			return &rec
		}
	}
	return nil
}

// =============================================================================
// ADMINS
// =============================================================================

func (m *Memory) IsAdmin(_ context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admins[userID], nil
}
