package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Find returns one page of bookings matching the query, newest start first.
	Find(ctx context.Context, q Query) ([]*Booking, error)

	// FindLastForItem returns the latest booking of the item that started before now
	// and was not rejected, or nil.
	FindLastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*Booking, error)

	// FindNextForItem returns the earliest booking of the item that starts after now
	// and was not rejected, or nil.
	FindNextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*Booking, error)

	// FindLatestFinishedByBookerAndItem returns the most recently ended non-rejected
	// booking of the item by the booker, or nil.
	FindLatestFinishedByBookerAndItem(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) (*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// SaveExclusive persists a new booking unless another waiting or approved
	// booking of the same item overlaps its window.
	SaveExclusive(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
