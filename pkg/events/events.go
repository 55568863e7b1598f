// Package events holds the topics, CloudEvent types and payloads exchanged
// between the booking service and the user and item registries.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicUserEvents    = "user.events"
	TopicItemEvents    = "item.events"
)

// Event types.
const (
	BookingCreated  = "booking.created"
	BookingApproved = "booking.approved"
	BookingRejected = "booking.rejected"
	BookingCanceled = "booking.canceled"

	UserUpserted = "user.upserted"
	ItemUpserted = "item.upserted"
	ItemDeleted  = "item.deleted"
)

// BookingEvent is the payload of every booking.* event.
type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	BookerID   uuid.UUID `json:"booker_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserUpsertedEvent announces a created or changed user.
type UserUpsertedEvent struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ItemUpsertedEvent announces a created or changed item.
type ItemUpsertedEvent struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Available   bool       `json:"available"`
	RequestID   *uuid.UUID `json:"request_id,omitempty"`
}

// ItemDeletedEvent announces a removed item.
type ItemDeletedEvent struct {
	ID uuid.UUID `json:"id"`
}
