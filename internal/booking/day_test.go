package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
)

func TestDayOfStripsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)

	// 23:30 local on March 9 is already March 10 in UTC; DayOf follows UTC.
	in := time.Date(2025, 3, 9, 23, 30, 0, 0, loc)
	got := booking.DayOf(in)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)

	// Already-normalized values pass through unchanged.
	require.Equal(t, got, booking.DayOf(got))
}

func TestParseDay(t *testing.T) {
	d, err := booking.ParseDay("2025-03-10")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)
	require.Equal(t, "2025-03-10", booking.FormatDay(d))

	for _, bad := range []string{"", "10/03/2025", "2025-3-10", "2025-03-10T00:00:00Z"} {
		_, err := booking.ParseDay(bad)
		require.Error(t, err, "input %q", bad)
	}
}
