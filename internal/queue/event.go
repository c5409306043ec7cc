// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking passes admission and
// commits. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.
type BookingCreatedEvent struct {
	BookingID uint64 `json:"booking_id"`
	DogID     uint64 `json:"dog_id"`
	DogName   string `json:"dog_name,omitempty"`
	OwnerID   uint64 `json:"owner_id"`
	Day       string `json:"day"`        // ISO date the dog is booked for
	CreatedAt string `json:"created_at"` // RFC3339 commit timestamp
}
