package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

// memStore is an in-memory Store/Reader used to exercise the engine
// without a database. InsertIfAbsent re-checks both preconditions
// under a single mutex, matching the atomicity the real store gets
// from its transaction.
type memStore struct {
	mu        sync.Mutex
	nextID    uint64
	rows      map[uint64]model.Booking
	conflicts int // InsertIfAbsent returns ErrTxConflict this many times first
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uint64]model.Booking)}
}

func (s *memStore) FindOne(_ context.Context, dogID uint64, day time.Time) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.rows {
		if b.DogID == dogID && b.Day.Equal(day) {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memStore) CountByDay(_ context.Context, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(day), nil
}

func (s *memStore) countLocked(day time.Time) int {
	n := 0
	for _, b := range s.rows {
		if b.Day.Equal(day) {
			n++
		}
	}
	return n
}

func (s *memStore) InsertIfAbsent(_ context.Context, b *model.Booking, ceiling int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return booking.ErrTxConflict
	}
	for _, row := range s.rows {
		if row.DogID == b.DogID && row.Day.Equal(b.Day) {
			return booking.ErrDuplicateBooking
		}
	}
	if s.countLocked(b.Day)+1 >= ceiling {
		return booking.ErrCapacityExhausted
	}
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now().UTC()
	s.rows[b.ID] = *b
	return nil
}

func (s *memStore) FindByID(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.rows[id]; ok {
		out := b
		return &out, nil
	}
	return nil, nil
}

func (s *memStore) DeleteByID(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *memStore) ListByOwner(_ context.Context, ownerID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.rows {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) ListAll(_ context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0, len(s.rows))
	for _, b := range s.rows {
		out = append(out, b)
	}
	return out, nil
}

func (s *memStore) ListByDay(_ context.Context, day time.Time) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.rows {
		if b.Day.Equal(day) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) DaysBetween(_ context.Context, start, end time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[time.Time]bool)
	for _, b := range s.rows {
		if !b.Day.Before(start) && !b.Day.After(end) {
			seen[b.Day] = true
		}
	}
	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	// ascending, as the SQL implementation orders it
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Before(out[i]) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

// memRegistry is a fixed set of dogs.
type memRegistry struct {
	dogs map[uint64]model.Dog
}

func (r *memRegistry) DogByID(_ context.Context, id uint64) (*model.Dog, error) {
	if d, ok := r.dogs[id]; ok {
		out := d
		return &out, nil
	}
	return nil, nil
}

// "today" for every engine test; bookings target days after this.
var testToday = time.Date(2025, 3, 1, 15, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return testToday }

func newTestEngine(store *memStore, ceiling int, dogs ...model.Dog) *booking.Engine {
	reg := &memRegistry{dogs: make(map[uint64]model.Dog)}
	for _, d := range dogs {
		reg.dogs[d.ID] = d
	}
	return booking.NewEngine(store, reg, booking.NewCapacityPolicy(ceiling)).WithClock(fixedClock)
}

func day(s string) time.Time {
	d, err := booking.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateBooking(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7, Name: "Rex"})

	b, err := eng.Create(context.Background(), 1, day("2025-03-10"), 7)
	require.NoError(t, err)
	require.NotZero(t, b.ID)
	require.Equal(t, uint64(1), b.DogID)
	require.Equal(t, uint64(7), b.OwnerID, "booking owner equals dog owner")
	require.Equal(t, day("2025-03-10"), b.Day)
	require.False(t, b.CreatedAt.IsZero())
}

func TestCreateBookingNormalizesDay(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7})

	// A timestamp with a time-of-day component lands on its calendar day.
	b, err := eng.Create(context.Background(), 1, time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC), 7)
	require.NoError(t, err)
	require.Equal(t, day("2025-03-10"), b.Day)
}

func TestCreateBookingDuplicate(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7})
	ctx := context.Background()

	_, err := eng.Create(ctx, 1, day("2025-03-10"), 7)
	require.NoError(t, err)

	_, err = eng.Create(ctx, 1, day("2025-03-10"), 7)
	require.ErrorIs(t, err, booking.ErrDuplicateBooking)

	// Exactly one row survives for the (dog, day) pair.
	n, err := store.CountByDay(ctx, day("2025-03-10"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// A different day for the same dog is fine.
	_, err = eng.Create(ctx, 1, day("2025-03-11"), 7)
	require.NoError(t, err)
}

func TestCreateBookingRejectsTodayAndPast(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7})
	ctx := context.Background()

	for _, d := range []string{"2025-03-01", "2025-02-28", "2020-01-01"} {
		_, err := eng.Create(ctx, 1, day(d), 7)
		require.ErrorIs(t, err, booking.ErrPastDay, "day %s", d)
	}

	// Late on the current day is still "today": the comparison is
	// date-only, independent of the wall clock.
	_, err := eng.Create(ctx, 1, time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC), 7)
	require.ErrorIs(t, err, booking.ErrPastDay)

	require.Empty(t, mustListAll(t, store), "rejections never write")

	// Tomorrow is the first valid day.
	_, err = eng.Create(ctx, 1, day("2025-03-02"), 7)
	require.NoError(t, err)
	require.Len(t, mustListAll(t, store), 1)
}

func TestCreateBookingOwnership(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7})
	ctx := context.Background()

	_, err := eng.Create(ctx, 1, day("2025-03-10"), 8)
	require.ErrorIs(t, err, booking.ErrNotOwner)

	_, err = eng.Create(ctx, 99, day("2025-03-10"), 7)
	require.ErrorIs(t, err, booking.ErrDogNotFound)

	require.Empty(t, mustListAll(t, store))
}

func TestCreateBookingCapacity(t *testing.T) {
	store := newMemStore()
	dogs := make([]model.Dog, 0, 11)
	for i := uint64(1); i <= 11; i++ {
		dogs = append(dogs, model.Dog{ID: i, OwnerID: i})
	}
	eng := newTestEngine(store, 11, dogs...)
	ctx := context.Background()
	d := day("2025-03-10")

	// Ceiling 11 admits ten bookings.
	for i := uint64(1); i <= 10; i++ {
		_, err := eng.Create(ctx, i, d, i)
		require.NoError(t, err, "booking %d", i)
	}

	// The eleventh distinct dog is rejected on capacity.
	_, err := eng.Create(ctx, 11, d, 11)
	require.ErrorIs(t, err, booking.ErrCapacityExhausted)

	n, err := store.CountByDay(ctx, d)
	require.NoError(t, err)
	require.Equal(t, 10, n)

	// Another day is unaffected by the full one.
	_, err = eng.Create(ctx, 11, day("2025-03-11"), 11)
	require.NoError(t, err)
}

func TestCreateBookingRetriesOnce(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7})
	ctx := context.Background()

	store.conflicts = 1
	b, err := eng.Create(ctx, 1, day("2025-03-10"), 7)
	require.NoError(t, err, "one transactional conflict is retried")
	require.NotZero(t, b.ID)

	store.conflicts = 2
	_, err = eng.Create(ctx, 1, day("2025-03-11"), 7)
	require.ErrorIs(t, err, booking.ErrTxConflict, "retry is bounded to a single attempt")
}

func TestDeleteBooking(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7})
	ctx := context.Background()

	b, err := eng.Create(ctx, 1, day("2025-03-10"), 7)
	require.NoError(t, err)

	// A stranger may not delete.
	err = eng.Delete(ctx, b.ID, 8, model.RoleOwner)
	require.ErrorIs(t, err, booking.ErrNotOwner)

	// The owner may.
	require.NoError(t, eng.Delete(ctx, b.ID, 7, model.RoleOwner))

	// Deleting again reports not found, not corruption.
	err = eng.Delete(ctx, b.ID, 7, model.RoleOwner)
	require.ErrorIs(t, err, booking.ErrBookingNotFound)

	// Unknown ids behave the same.
	err = eng.Delete(ctx, 12345, 7, model.RoleOwner)
	require.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestDeleteBookingAdmin(t *testing.T) {
	store := newMemStore()
	eng := newTestEngine(store, 11, model.Dog{ID: 1, OwnerID: 7})
	ctx := context.Background()

	b, err := eng.Create(ctx, 1, day("2025-03-10"), 7)
	require.NoError(t, err)

	// An admin may delete anyone's booking.
	require.NoError(t, eng.Delete(ctx, b.ID, 99, model.RoleAdmin))
	require.Empty(t, mustListAll(t, store))
}

// TestConcurrentCreatesRespectCapacity drives N concurrent admissions
// for distinct dogs on the same day, N well past the ceiling. Exactly
// ceiling-1 must commit and every other request must be rejected with
// a capacity conflict; the final count can never exceed ceiling-1.
func TestConcurrentCreatesRespectCapacity(t *testing.T) {
	const (
		ceiling = 11
		n       = 40
	)
	store := newMemStore()
	dogs := make([]model.Dog, 0, n)
	for i := uint64(1); i <= n; i++ {
		dogs = append(dogs, model.Dog{ID: i, OwnerID: i})
	}
	eng := newTestEngine(store, ceiling, dogs...)
	d := day("2025-03-10")

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := uint64(i + 1)
			_, err := eng.Create(context.Background(), id, d, id)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	success, conflict := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, booking.ErrCapacityExhausted):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, ceiling-1, success)
	require.Equal(t, n-(ceiling-1), conflict)

	final, err := store.CountByDay(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, ceiling-1, final)
}

func mustListAll(t *testing.T, s *memStore) []model.Booking {
	t.Helper()
	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	return all
}
