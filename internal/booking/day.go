package booking

import "time"

// dayFormat is the ISO calendar date layout used on the wire and in
// the bookings.day DATE column.
const dayFormat = "2006-01-02"

// DayOf strips the time-of-day component from t and returns the
// calendar day as UTC midnight. All day comparisons in this package
// go through this normalization so that the wall clock and the
// caller's time zone never influence admission decisions.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO date string ("2006-01-02") into a UTC
// midnight timestamp.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return DayOf(t), nil
}

// FormatDay renders a day as its ISO date string, date only.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayFormat)
}
