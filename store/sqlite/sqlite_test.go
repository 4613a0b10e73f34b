package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsparkle/promoter-engine/roster"
	"github.com/adsparkle/promoter-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedPromoter(t *testing.T, store *sqlite.Store, groupID string) *roster.Promoter {
	t.Helper()
	upiID := "test@upi"
	join := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := roster.Promoter{
		GroupID:  groupID,
		Name:     "Test Promoter",
		Phone:    "9876500000",
		UPIID:    &upiID,
		JoinDate: &join,
	}
	require.NoError(t, store.InsertPromoter(context.Background(), &p))
	return &p
}

func seedGroup(t *testing.T, store *sqlite.Store) *roster.Group {
	t.Helper()
	g := roster.Group{Name: "Test Group"}
	require.NoError(t, store.InsertGroup(context.Background(), &g))
	return &g
}

// =============================================================================
// GROUP TESTS
// =============================================================================

func TestGroup_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	desc := "field team"
	g := roster.Group{Name: "Downtown"}
	g.Description = &desc
	require.NoError(t, store.InsertGroup(ctx, &g))
	require.NotEmpty(t, g.ID)

	got, err := store.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Downtown", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestGetGroup_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetGroup(context.Background(), "missing")
	assert.ErrorIs(t, err, roster.ErrGroupNotFound)
}

// =============================================================================
// PROMOTER TESTS
// =============================================================================

func TestPromoter_NullableFieldsSurvive(t *testing.T) {
	// A promoter with no UPI id, join date, or leave date round-trips
	// with all three still nil.
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGroup(t, store)

	p := roster.Promoter{GroupID: g.ID, Name: "Bare", Phone: "123"}
	require.NoError(t, store.InsertPromoter(ctx, &p))

	got, err := store.GetPromoter(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UPIID)
	assert.Nil(t, got.JoinDate)
	assert.Nil(t, got.LeaveDate)
}

func TestSetLeaveDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGroup(t, store)
	p := seedPromoter(t, store, g.ID)

	leave := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetLeaveDate(ctx, p.ID, leave))

	got, err := store.GetPromoter(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LeaveDate)
	assert.Equal(t, leave, *got.LeaveDate)
}

func TestSetLeaveDate_NotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.SetLeaveDate(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, roster.ErrPromoterNotFound)
}

func TestListPromoters_ScopedToGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	g1 := seedGroup(t, store)
	g2 := seedGroup(t, store)
	seedPromoter(t, store, g1.ID)
	seedPromoter(t, store, g1.ID)
	seedPromoter(t, store, g2.ID)

	got, err := store.ListPromoters(ctx, g1.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// =============================================================================
// MONTHLY RECORD TESTS
// =============================================================================

func TestInsertMonthlyRecord_DuplicateMonthRejected(t *testing.T) {
	// The unique index on (promoter_id, year, month) keeps one record per
	// member per month.
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGroup(t, store)
	p := seedPromoter(t, store, g.ID)

	r1 := roster.MonthlyRecord{PromoterID: p.ID, GroupID: g.ID, Year: 2025, Month: 3, Days: 10}
	require.NoError(t, store.InsertMonthlyRecord(ctx, &r1))

	r2 := roster.MonthlyRecord{PromoterID: p.ID, GroupID: g.ID, Year: 2025, Month: 3, Days: 20}
	err := store.InsertMonthlyRecord(ctx, &r2)
	assert.ErrorIs(t, err, roster.ErrDuplicateRecord)
}

func TestListMonthlyRecords_FiltersByMemberAndMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGroup(t, store)
	p1 := seedPromoter(t, store, g.ID)
	p2 := seedPromoter(t, store, g.ID)
	p3 := seedPromoter(t, store, g.ID)

	for _, rec := range []roster.MonthlyRecord{
		{PromoterID: p1.ID, GroupID: g.ID, Year: 2025, Month: 3, Days: 1},
		{PromoterID: p2.ID, GroupID: g.ID, Year: 2025, Month: 3, Days: 2},
		{PromoterID: p2.ID, GroupID: g.ID, Year: 2025, Month: 4, Days: 3},
		{PromoterID: p3.ID, GroupID: g.ID, Year: 2025, Month: 3, Days: 4},
	} {
		r := rec
		require.NoError(t, store.InsertMonthlyRecord(ctx, &r))
	}

	got, err := store.ListMonthlyRecords(ctx, []string{p1.ID, p2.ID}, 2025, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, 3, r.Month)
		assert.NotEqual(t, p3.ID, r.PromoterID)
	}
}

func TestListMonthlyRecords_EmptyIDList(t *testing.T) {
	store := newTestStore(t)
	got, err := store.ListMonthlyRecords(context.Background(), nil, 2025, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateRecordDays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGroup(t, store)
	p := seedPromoter(t, store, g.ID)

	r := roster.MonthlyRecord{PromoterID: p.ID, GroupID: g.ID, Year: 2025, Month: 3, Days: 10}
	require.NoError(t, store.InsertMonthlyRecord(ctx, &r))

	require.NoError(t, store.UpdateRecordDays(ctx, r.ID, 25))

	got, err := store.ListMonthlyRecords(ctx, []string{p.ID}, 2025, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 25, got[0].Days)
}

// =============================================================================
// UPSERT TESTS
// =============================================================================

func TestUpsertMonthlyRecord_InsertsThenUpdates(t *testing.T) {
	// GIVEN: No record for the month
	// WHEN: Upserting twice for the same (promoter, year, month)
	// THEN: One row exists, carrying the latest state and a stable id

	store := newTestStore(t)
	ctx := context.Background()
	g := seedGroup(t, store)
	p := seedPromoter(t, store, g.ID)

	first, err := store.UpsertMonthlyRecord(ctx, roster.MonthlyRecord{
		PromoterID: p.ID, GroupID: g.ID, Year: 2025, Month: 3,
		Days: 0, PaymentCompleted: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.True(t, first.PaymentCompleted)

	second, err := store.UpsertMonthlyRecord(ctx, roster.MonthlyRecord{
		PromoterID: p.ID, GroupID: g.ID, Year: 2025, Month: 3,
		Days: 0, PaymentCompleted: false,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.PaymentCompleted)

	got, err := store.ListMonthlyRecords(ctx, []string{p.ID}, 2025, 3)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpsertMonthlyRecord_PreservesDays(t *testing.T) {
	// A payment toggle upserts with the days it knows; the stored row
	// must reflect exactly what was sent.
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGroup(t, store)
	p := seedPromoter(t, store, g.ID)

	r := roster.MonthlyRecord{PromoterID: p.ID, GroupID: g.ID, Year: 2025, Month: 3, Days: 17}
	require.NoError(t, store.InsertMonthlyRecord(ctx, &r))

	stored, err := store.UpsertMonthlyRecord(ctx, roster.MonthlyRecord{
		ID: r.ID, PromoterID: p.ID, GroupID: g.ID, Year: 2025, Month: 3,
		Days: 17, PaymentCompleted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, r.ID, stored.ID)
	assert.Equal(t, 17, stored.Days)
	assert.True(t, stored.PaymentCompleted)
}

// =============================================================================
// ADMIN TESTS
// =============================================================================

func TestIsAdmin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.IsAdmin(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.AddAdmin(ctx, "admin@example.com"))

	ok, err = store.IsAdmin(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	// Seeding the same admin twice is fine.
	assert.NoError(t, store.AddAdmin(ctx, "admin@example.com"))
}
