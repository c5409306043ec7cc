package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

func TestQueryServiceEmptyResults(t *testing.T) {
	q := booking.NewQueryService(newMemStore())
	ctx := context.Background()

	byOwner, err := q.ListByOwner(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, byOwner)

	all, err := q.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	byDay, err := q.ListByDay(ctx, day("2025-03-10"))
	require.NoError(t, err)
	require.Empty(t, byDay)

	days, err := q.OccupiedDays(ctx, day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	require.Empty(t, days)
}

func TestQueryServiceReads(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11,
		model.Dog{ID: 1, OwnerID: 7},
		model.Dog{ID: 2, OwnerID: 7},
		model.Dog{ID: 3, OwnerID: 8},
	)
	q := booking.NewQueryService(store)
	ctx := context.Background()

	mustCreate(t, eng, 1, "2025-03-05", 7)
	mustCreate(t, eng, 2, "2025-03-05", 7)
	mustCreate(t, eng, 3, "2025-03-20", 8)

	byOwner, err := q.ListByOwner(ctx, 7)
	require.NoError(t, err)
	require.Len(t, byOwner, 2)
	for _, b := range byOwner {
		require.Equal(t, uint64(7), b.OwnerID)
	}

	all, err := q.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byDay, err := q.ListByDay(ctx, day("2025-03-05"))
	require.NoError(t, err)
	require.Len(t, byDay, 2)

	// A time-of-day component on the query day is ignored.
	byDay, err = q.ListByDay(ctx, time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, byDay, 2)
}

func TestOccupiedDaysDistinct(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11,
		model.Dog{ID: 1, OwnerID: 7},
		model.Dog{ID: 2, OwnerID: 7},
		model.Dog{ID: 3, OwnerID: 8},
	)
	q := booking.NewQueryService(store)
	ctx := context.Background()

	// Two bookings share March 5; the range query still reports the
	// day once.
	mustCreate(t, eng, 1, "2025-03-05", 7)
	mustCreate(t, eng, 2, "2025-03-05", 7)
	mustCreate(t, eng, 3, "2025-03-20", 8)

	days, err := q.OccupiedDays(ctx, day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	require.Equal(t, []time.Time{day("2025-03-05"), day("2025-03-20")}, days)

	// Bounds are inclusive.
	days, err = q.OccupiedDays(ctx, day("2025-03-05"), day("2025-03-20"))
	require.NoError(t, err)
	require.Len(t, days, 2)

	// A window missing both days is empty.
	days, err = q.OccupiedDays(ctx, day("2025-03-06"), day("2025-03-19"))
	require.NoError(t, err)
	require.Empty(t, days)
}

func mustCreate(t *testing.T, eng *booking.Engine, dogID uint64, d string, ownerID uint64) {
	t.Helper()
	_, err := eng.Create(context.Background(), dogID, day(d), ownerID)
	require.NoError(t, err)
}
