package model

import "time"

// Dog represents a reservable dog as stored in the `dogs` table.
// Every dog belongs to exactly one user; ownership is set at
// registration time and never changes.  The booking engine only
// reads dogs, it never mutates them.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user who owns the dog (dogs.owner_id → users.id).
//  Name      – display name of the dog.
//  Breed     – free-form breed description, may be empty.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Dog struct {
    ID        uint64    `json:"id"`         // dogs.id
    OwnerID   uint64    `json:"owner_id"`   // dogs.owner_id
    Name      string    `json:"name"`       // dogs.name
    Breed     string    `json:"breed"`      // dogs.breed
    CreatedAt time.Time `json:"created_at"` // dogs.created_at
    UpdatedAt time.Time `json:"updated_at"` // dogs.updated_at
}
