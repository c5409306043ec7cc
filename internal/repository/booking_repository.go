package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

// BookingRepo provides data access to the bookings table. It
// implements both booking.Store (the admission engine's write
// contract) and booking.Reader (the query service's read contract).
// The day column is DATE; all values are written as ISO date strings
// and read back as UTC midnight timestamps (parseTime=true, loc=UTC
// in the DSN).
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// MySQL server error numbers the repository translates into booking
// sentinels.
const (
	mysqlErrDupEntry = 1062 // unique key violation on (dog_id, day)
	mysqlErrDeadlock = 1213 // deadlock between concurrent same-day inserts
)

// translateMySQL maps driver errors onto the booking package's
// sentinels so the engine never sees raw driver types.
func translateMySQL(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrDupEntry:
			return booking.ErrDuplicateBooking
		case mysqlErrDeadlock:
			return booking.ErrTxConflict
		}
	}
	return err
}

// FindOne returns the booking for (dogID, day), or nil when no such
// row exists.
func (r *BookingRepo) FindOne(ctx context.Context, dogID uint64, day time.Time) (*model.Booking, error) {
	const q = `SELECT id, dog_id, day, owner_id, created_at FROM bookings WHERE dog_id = ? AND day = ? LIMIT 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, dogID, booking.FormatDay(day)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// CountByDay returns the number of bookings on the given day. The
// count is always recomputed from the table, never cached, so reads
// stay consistent with concurrent writers.
func (r *BookingRepo) CountByDay(ctx context.Context, day time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE day = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, booking.FormatDay(day)).Scan(&n)
	return n, err
}

// InsertIfAbsent commits a booking only if, at commit time, the day
// still admits one more booking and no booking exists for the same
// dog and day. Both preconditions are re-evaluated inside a single
// transaction together with the insert:
//
//   - SELECT ... FOR UPDATE on the day's rows serializes concurrent
//     writers targeting the same day (InnoDB next-key locks on the
//     day index cover the gap, so two empty-day inserts also
//     serialize);
//   - the UNIQUE KEY on (dog_id, day) is the storage-level backstop
//     for the duplicate rule.
//
// A deadlock between two same-day transactions surfaces as
// booking.ErrTxConflict; the engine retries once and the second run
// reaches a definitive admit/reject.
func (r *BookingRepo) InsertIfAbsent(ctx context.Context, b *model.Booking, ceiling int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	day := booking.FormatDay(b.Day)

	var cnt int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE day = ? FOR UPDATE`, day).Scan(&cnt); err != nil {
		return translateMySQL(err)
	}
	if cnt+1 >= ceiling {
		return booking.ErrCapacityExhausted
	}

	var dup int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE dog_id = ? AND day = ?`, b.DogID, day).Scan(&dup); err != nil {
		return translateMySQL(err)
	}
	if dup > 0 {
		return booking.ErrDuplicateBooking
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (dog_id, day, owner_id) VALUES (?, ?, ?)`,
		b.DogID, day, b.OwnerID)
	if err != nil {
		return translateMySQL(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query the row back to populate the DB-assigned timestamp.
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return translateMySQL(err)
	}
	committed = true
	return nil
}

// FindByID returns the booking with the given id, or nil when absent.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, dog_id, day, owner_id, created_at FROM bookings WHERE id = ? LIMIT 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// DeleteByID removes the booking and reports whether a row was
// deleted. A second delete of the same id reports false.
func (r *BookingRepo) DeleteByID(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByOwner returns all bookings created by the given user, newest
// first.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	const q = `SELECT id, dog_id, day, owner_id, created_at FROM bookings WHERE owner_id = ? ORDER BY created_at DESC, id DESC`
	return r.listBookings(ctx, q, ownerID)
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT id, dog_id, day, owner_id, created_at FROM bookings ORDER BY created_at DESC, id DESC`
	return r.listBookings(ctx, q)
}

// ListByDay returns the bookings whose day matches exactly.
func (r *BookingRepo) ListByDay(ctx context.Context, day time.Time) ([]model.Booking, error) {
	const q = `SELECT id, dog_id, day, owner_id, created_at FROM bookings WHERE day = ? ORDER BY id`
	return r.listBookings(ctx, q, booking.FormatDay(day))
}

// DaysBetween returns the distinct days in [start, end] that have at
// least one booking, ascending.
func (r *BookingRepo) DaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	const q = `SELECT DISTINCT day FROM bookings WHERE day BETWEEN ? AND ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, q, booking.FormatDay(start), booking.FormatDay(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	days := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, booking.DayOf(d))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

func (r *BookingRepo) listBookings(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.DogID, &b.Day, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Day = booking.DayOf(b.Day)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner lets scanBooking accept a *sql.Row.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.DogID, &b.Day, &b.OwnerID, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Day = booking.DayOf(b.Day)
	return &b, nil
}
