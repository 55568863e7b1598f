package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item is the local projection of a shareable item.
type Item struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	description string
	available   bool
	requestID   *uuid.UUID
	updatedAt   time.Time
}

// NewItem creates an item projection from an upstream record.
func NewItem(
	id, ownerID uuid.UUID,
	name, description string,
	available bool,
	requestID *uuid.UUID,
) (*Item, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("item ID is required")
	}
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("item owner ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		updatedAt:   time.Now().UTC(),
	}, nil
}

// ReconstructItem rebuilds an Item from persistence data (no validation).
func ReconstructItem(
	id, ownerID uuid.UUID,
	name, description string,
	available bool,
	requestID *uuid.UUID,
	updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() uuid.UUID { return i.id }
func (i *Item) OwnerID() uuid.UUID { return i.ownerID }
func (i *Item) Name() string { return i.name }
func (i *Item) Description() string { return i.description }
func (i *Item) Available() bool { return i.available }
func (i *Item) RequestID() *uuid.UUID { return i.requestID }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// IsOwnedBy checks if the item belongs to the given user.
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.ownerID == userID
}
