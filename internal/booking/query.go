package booking

import (
	"context"
	"time"

	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

// Reader is the read-side contract of the booking store. All
// methods are plain projections; "no results" is an empty slice,
// never an error.
type Reader interface {
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListByDay(ctx context.Context, day time.Time) ([]model.Booking, error)
	// DaysBetween returns the distinct days in [start, end] that have
	// at least one booking, ascending.
	DaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

// QueryService serves the read paths. It bypasses the admission
// engine entirely; reads need no validation beyond day parsing,
// which callers do before reaching this layer.
type QueryService struct {
	store Reader
}

// NewQueryService constructs a QueryService over the given reader.
func NewQueryService(store Reader) *QueryService {
	if store == nil {
		panic("nil store passed to NewQueryService")
	}
	return &QueryService{store: store}
}

// ListByOwner returns all bookings created by the given user.
// Ordering is not meaningful to callers.
func (q *QueryService) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	return q.store.ListByOwner(ctx, ownerID)
}

// ListAll returns every booking in the system. This read is served
// without any ownership filter.
func (q *QueryService) ListAll(ctx context.Context) ([]model.Booking, error) {
	return q.store.ListAll(ctx)
}

// ListByDay returns the bookings whose day matches exactly.
func (q *QueryService) ListByDay(ctx context.Context, day time.Time) ([]model.Booking, error) {
	return q.store.ListByDay(ctx, DayOf(day))
}

// OccupiedDays returns the distinct calendar days between start and
// end (inclusive) that carry at least one booking. It returns days,
// not bookings: ten bookings on the same day contribute one entry.
func (q *QueryService) OccupiedDays(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	return q.store.DaysBetween(ctx, DayOf(start), DayOf(end))
}
