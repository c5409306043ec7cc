package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

// DogRepo provides data access to the dogs table. The booking engine
// consumes it through the booking.Registry interface and only ever
// reads; creation and deletion are owner-facing operations exposed by
// the dog handler.
type DogRepo struct{ DB *sql.DB }

// NewDogRepo returns a new DogRepo bound to the given database.
func NewDogRepo(db *sql.DB) *DogRepo { return &DogRepo{DB: db} }

// Create inserts a dog for the given owner and returns its ID.
func (r *DogRepo) Create(ctx context.Context, ownerID uint64, name, breed string) (uint64, error) {
	name = strings.TrimSpace(name)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO dogs (owner_id, name, breed) VALUES (?,?,?)",
		ownerID, name, strings.TrimSpace(breed))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// DogByID fetches a dog by id. It returns nil when the dog does not
// exist, satisfying booking.Registry.
func (r *DogRepo) DogByID(ctx context.Context, id uint64) (*model.Dog, error) {
	var d model.Dog
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, owner_id, name, breed, created_at, updated_at FROM dogs WHERE id=? LIMIT 1",
		id).Scan(&d.ID, &d.OwnerID, &d.Name, &d.Breed, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByOwner returns all dogs registered by the given user.
func (r *DogRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Dog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, owner_id, name, breed, created_at, updated_at FROM dogs WHERE owner_id=? ORDER BY id",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dogs := make([]model.Dog, 0)
	for rows.Next() {
		var d model.Dog
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Breed, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		dogs = append(dogs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dogs, nil
}

// Delete removes a dog owned by ownerID. It returns ErrForbidden
// when the dog belongs to someone else and sql.ErrNoRows when it
// does not exist. Deleting a dog with existing bookings fails with
// ErrConflict so history stays intact.
func (r *DogRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var actualOwner uint64
	err := r.DB.QueryRowContext(ctx, "SELECT owner_id FROM dogs WHERE id=? LIMIT 1", id).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings WHERE dog_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM dogs WHERE id=?", id)
	return err
}
