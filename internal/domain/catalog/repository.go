package catalog

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository reads and maintains the user projection.
type UserRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByIDs skips ids that are not projected.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)
	Upsert(ctx context.Context, user *User) error
}

// ItemRepository reads and maintains the item projection.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error)
	// FindByIDs skips ids that are not projected.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Item, error)
	Upsert(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
