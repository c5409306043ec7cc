package booking_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
)

func TestCapacityPolicyAdmit(t *testing.T) {
	// A ceiling of C admits C-1 bookings: admission requires
	// existing+requested < C.
	p := booking.NewCapacityPolicy(11)

	for existing := 0; existing <= 9; existing++ {
		require.True(t, p.Admit(existing, 1), "existing=%d should be admitted", existing)
	}
	require.False(t, p.Admit(10, 1), "tenth slot is the last usable one")
	require.False(t, p.Admit(11, 1))

	// Multi-slot requests follow the same threshold.
	require.True(t, p.Admit(5, 5))
	require.False(t, p.Admit(5, 6))
}

func TestCapacityPolicyZeroCeiling(t *testing.T) {
	p := booking.NewCapacityPolicy(0)
	require.False(t, p.Admit(0, 1))

	p = booking.NewCapacityPolicy(1)
	require.False(t, p.Admit(0, 1), "ceiling 1 admits nothing")
}
