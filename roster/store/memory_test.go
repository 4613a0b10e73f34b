package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsparkle/promoter-engine/roster"
	"github.com/adsparkle/promoter-engine/roster/store"
)

func TestUpsertMonthlyRecord_KeepsSuppliedIDOnInsert(t *testing.T) {
	// GIVEN: No record for the month and an upsert carrying an explicit id
	// WHEN: The upsert takes the insert path
	// THEN: The supplied id is stored, matching the sqlite store

	mem := store.NewMemory()
	ctx := context.Background()

	stored, err := mem.UpsertMonthlyRecord(ctx, roster.MonthlyRecord{
		ID: "rec-explicit", PromoterID: "p1", GroupID: "g1",
		Year: 2025, Month: 3, Days: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-explicit", stored.ID)

	recs, err := mem.ListMonthlyRecords(ctx, []string{"p1"}, 2025, 3)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-explicit", recs[0].ID)
}

func TestUpsertMonthlyRecord_GeneratesIDWhenEmpty(t *testing.T) {
	mem := store.NewMemory()

	stored, err := mem.UpsertMonthlyRecord(context.Background(), roster.MonthlyRecord{
		PromoterID: "p1", GroupID: "g1", Year: 2025, Month: 3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
}

func TestUpsertMonthlyRecord_ConflictKeepsStoredID(t *testing.T) {
	// A second upsert for the same (promoter, year, month) updates the
	// existing row and returns its id, not the freshly supplied one.
	mem := store.NewMemory()
	ctx := context.Background()

	first, err := mem.UpsertMonthlyRecord(ctx, roster.MonthlyRecord{
		PromoterID: "p1", GroupID: "g1", Year: 2025, Month: 3, Days: 4,
	})
	require.NoError(t, err)

	second, err := mem.UpsertMonthlyRecord(ctx, roster.MonthlyRecord{
		ID: "rec-other", PromoterID: "p1", GroupID: "g1",
		Year: 2025, Month: 3, Days: 9, PaymentCompleted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 9, second.Days)
	assert.True(t, second.PaymentCompleted)

	recs, err := mem.ListMonthlyRecords(ctx, []string{"p1"}, 2025, 3)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
