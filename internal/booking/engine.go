package booking

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

// Store is the persistence contract the engine depends on. The
// crux is InsertIfAbsent: the duplicate and capacity preconditions
// must be re-evaluated inside the same atomic unit as the insert
// itself, so that two concurrent admissions can never both commit
// past the ceiling. Implementations back this with a transaction
// that serializes writers on the target day (see
// repository.BookingRepo) or an equivalent compare-and-swap.
type Store interface {
	// FindOne returns the booking for (dogID, day) or nil when absent.
	FindOne(ctx context.Context, dogID uint64, day time.Time) (*model.Booking, error)
	// CountByDay returns the number of bookings on the given day.
	CountByDay(ctx context.Context, day time.Time) (int, error)
	// InsertIfAbsent atomically re-checks the duplicate and capacity
	// preconditions and inserts the booking. It populates ID and
	// CreatedAt on success. It returns ErrDuplicateBooking,
	// ErrCapacityExhausted, or ErrTxConflict when the transaction
	// aborted for a reason that is safe to retry.
	InsertIfAbsent(ctx context.Context, b *model.Booking, ceiling int) error
	// FindByID returns the booking or nil when absent.
	FindByID(ctx context.Context, id uint64) (*model.Booking, error)
	// DeleteByID removes the booking and reports whether a row was
	// actually deleted.
	DeleteByID(ctx context.Context, id uint64) (bool, error)
}

// Registry resolves dogs and their ownership. It is read-only from
// the engine's perspective.
type Registry interface {
	// DogByID returns the dog or nil when it does not exist.
	DogByID(ctx context.Context, id uint64) (*model.Dog, error)
}

// Engine performs booking admission: ordered validation against the
// registry and store, then an atomic conditional commit. It is safe
// for concurrent use by any number of request goroutines; all shared
// state lives behind the Store.
type Engine struct {
	store  Store
	dogs   Registry
	policy CapacityPolicy
	now    func() time.Time
}

// NewEngine constructs an Engine. The clock defaults to time.Now;
// tests may override it via WithClock.
func NewEngine(store Store, dogs Registry, policy CapacityPolicy) *Engine {
	if store == nil || dogs == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{store: store, dogs: dogs, policy: policy, now: time.Now}
}

// WithClock replaces the engine's time source and returns the engine
// for chaining. Used by tests to pin "today".
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Ceiling exposes the configured daily ceiling, e.g. for logging at
// startup.
func (e *Engine) Ceiling() int { return e.policy.Ceiling }

// Create admits and commits a booking of dogID for the given day on
// behalf of ownerID. Validation short-circuits in order: dog
// resolution, ownership, temporal validity, duplicate, capacity.
// Exactly one durable write happens on success and none on any
// rejection path. The preliminary duplicate/capacity reads give fast
// rejections; the authoritative check is repeated atomically inside
// the store's conditional insert, with a single retry when the
// transaction aborted due to a benign writer conflict.
func (e *Engine) Create(ctx context.Context, dogID uint64, day time.Time, ownerID uint64) (*model.Booking, error) {
	dog, err := e.dogs.DogByID(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if dog == nil {
		return nil, ErrDogNotFound
	}
	if dog.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	day = DayOf(day)
	if !day.After(DayOf(e.now())) {
		return nil, ErrPastDay
	}

	existing, err := e.store.FindOne(ctx, dogID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateBooking
	}

	count, err := e.store.CountByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if !e.policy.Admit(count, 1) {
		return nil, ErrCapacityExhausted
	}

	b := &model.Booking{
		DogID:   dogID,
		Day:     day,
		OwnerID: ownerID,
	}
	err = e.store.InsertIfAbsent(ctx, b, e.policy.Ceiling)
	if errors.Is(err, ErrTxConflict) {
		// One bounded retry; the losing side of a same-day deadlock
		// re-runs the conditional insert and gets a definitive answer.
		err = e.store.InsertIfAbsent(ctx, b, e.policy.Ceiling)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a booking. Only the booking's owner or an admin may
// delete it. Deleting an id that does not resolve returns
// ErrBookingNotFound, including on a repeated delete.
func (e *Engine) Delete(ctx context.Context, id, requesterID uint64, requesterRole string) error {
	b, err := e.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBookingNotFound
	}
	if b.OwnerID != requesterID && requesterRole != model.RoleAdmin {
		return ErrNotOwner
	}
	deleted, err := e.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		// Lost a race with another deleter; same outcome as not found.
		return ErrBookingNotFound
	}
	return nil
}
