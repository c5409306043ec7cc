package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
	"github.com/iliyamo/dog-daycare-reservation/internal/handler"
	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

// conflictStore aborts every insert with a transactional conflict,
// the way a repeatedly deadlocked MySQL transaction would. Reads
// report an empty system so the admission sequence reaches the
// insert.
type conflictStore struct{}

func (conflictStore) FindOne(ctx context.Context, dogID uint64, day time.Time) (*model.Booking, error) {
	return nil, nil
}
func (conflictStore) CountByDay(ctx context.Context, day time.Time) (int, error) { return 0, nil }
func (conflictStore) InsertIfAbsent(ctx context.Context, b *model.Booking, ceiling int) error {
	return booking.ErrTxConflict
}
func (conflictStore) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return nil, nil
}
func (conflictStore) DeleteByID(ctx context.Context, id uint64) (bool, error) { return false, nil }

func (conflictStore) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	return nil, nil
}
func (conflictStore) ListAll(ctx context.Context) ([]model.Booking, error) { return nil, nil }
func (conflictStore) ListByDay(ctx context.Context, day time.Time) ([]model.Booking, error) {
	return nil, nil
}
func (conflictStore) DaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	return nil, nil
}

type oneDogRegistry struct{ dog model.Dog }

func (r oneDogRegistry) DogByID(ctx context.Context, id uint64) (*model.Dog, error) {
	if id == r.dog.ID {
		d := r.dog
		return &d, nil
	}
	return nil, nil
}

// A create that keeps conflicting after the engine's retry must come
// back to the client as 409, not as an internal error.
func TestCreateBookingConflictMapsToConflict(t *testing.T) {
	store := conflictStore{}
	reg := oneDogRegistry{dog: model.Dog{ID: 1, OwnerID: 7}}
	eng := booking.NewEngine(store, reg, booking.NewCapacityPolicy(11)).
		WithClock(func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) })
	h := handler.NewBookingHandler(eng, booking.NewQueryService(store), reg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings",
		strings.NewReader(`{"dog_id":1,"day":"2025-03-10"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.Set("role", model.RoleOwner)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "concurrent")
}
