// Package booking implements the admission and capacity allocation
// engine for daycare bookings: the decision of whether a requested
// booking may be created given ownership rules, temporal validity,
// duplicate prevention and a shared daily capacity ceiling.
package booking

import "errors"

// Sentinel errors returned by the engine and expected from Store
// implementations. Handlers translate these into HTTP responses;
// anything not listed here is treated as an internal storage failure.
var (
	// ErrDogNotFound means the requested dog does not exist in the
	// registry. Handlers should respond 404.
	ErrDogNotFound = errors.New("dog not found")

	// ErrNotOwner means the requesting user does not own the target
	// dog or booking. Handlers should respond 403.
	ErrNotOwner = errors.New("requesting user is not the owner")

	// ErrPastDay means the requested day is today or in the past.
	// Bookings are only accepted for future calendar days. Handlers
	// should respond 400.
	ErrPastDay = errors.New("booking day must be after today")

	// ErrDuplicateBooking means a booking already exists for the same
	// dog on the same day. Handlers should respond 409.
	ErrDuplicateBooking = errors.New("booking already exists for this dog on this day")

	// ErrCapacityExhausted means the day already holds the maximum
	// admitted number of bookings. Handlers should respond 409.
	ErrCapacityExhausted = errors.New("no daycare capacity left on this day")

	// ErrBookingNotFound means the booking id does not resolve.
	// Deleting twice yields this on the second call. Handlers should
	// respond 404.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrTxConflict is returned by Store implementations when the
	// atomic insert aborted due to a benign transactional conflict
	// (e.g. a deadlock between two same-day inserts) rather than a
	// genuine precondition failure. The engine retries once; if the
	// retry conflicts too the sentinel propagates and handlers should
	// respond 409 so the client can retry.
	ErrTxConflict = errors.New("transactional conflict, safe to retry")
)
