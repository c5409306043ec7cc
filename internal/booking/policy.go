package booking

// CapacityPolicy decides whether a day can absorb additional
// bookings. It is a pure value with no storage access so capacity
// rules can evolve (per-weekday ceilings, blackout days) and be unit
// tested in isolation.
//
// The ceiling is injected at construction time from configuration.
// Note the inherited threshold semantics: a day admits ceiling-1
// bookings, not ceiling, because admission requires
// existing+requested < ceiling. A ceiling of 11 therefore yields 10
// usable slots. This mirrors the behavior of the system this service
// replaced and is kept intentionally; raise DAILY_CAPACITY by one if
// the full count should be usable.
type CapacityPolicy struct {
	Ceiling int
}

// NewCapacityPolicy returns a policy with the given daily ceiling.
func NewCapacityPolicy(ceiling int) CapacityPolicy {
	return CapacityPolicy{Ceiling: ceiling}
}

// Admit reports whether a day holding `existing` bookings can accept
// `requested` more.
func (p CapacityPolicy) Admit(existing, requested int) bool {
	return existing+requested < p.Ceiling
}
