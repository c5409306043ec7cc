package model

import "time"

// Booking commits one dog to one calendar day of daycare.  It maps
// to the `bookings` table.  `Day` carries no time-of-day component:
// it is stored in a DATE column and is always normalized to UTC
// midnight in memory so that comparisons are date-only.
//
// The table carries a UNIQUE KEY on (dog_id, day) so that the same
// dog can never be booked twice for the same day, and a secondary
// index on day for the per-day capacity count.
//
// Fields:
//  ID        – primary key identifier.
//  DogID     – dog being boarded (bookings.dog_id → dogs.id).
//  Day       – calendar day of the booking, UTC midnight.
//  OwnerID   – user who created the booking; always equals the
//              dog's owner at creation time.
//  CreatedAt – timestamp of creation.
type Booking struct {
    ID        uint64    `json:"id"`         // bookings.id
    DogID     uint64    `json:"dog_id"`     // bookings.dog_id
    Day       time.Time `json:"day"`        // bookings.day (DATE)
    OwnerID   uint64    `json:"owner_id"`   // bookings.owner_id
    CreatedAt time.Time `json:"created_at"` // bookings.created_at
}
