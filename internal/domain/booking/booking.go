package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/shareit/service-booking/pkg/domain"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id       uuid.UUID
	itemID   uuid.UUID
	bookerID uuid.UUID
	start    time.Time
	end      time.Time
	status   BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=WAITING.
func NewBooking(itemID, bookerID uuid.UUID, start, end time.Time) (*Booking, error) {
	if err := ValidatePeriod(start, end); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("item ID is required")
	}
	if bookerID == uuid.Nil {
		return nil, domain.NewValidationError("booker ID is required")
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start.UTC(),
		end:       end.UTC(),
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ValidatePeriod checks that the rental window is non-empty.
func ValidatePeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.NewValidationError("booking start and end are required")
	}
	if !end.After(start) {
		return domain.NewValidationError("booking end must be after start")
	}
	return nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	itemID uuid.UUID,
	bookerID uuid.UUID,
	start time.Time,
	end time.Time,
	status BookingStatus,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start,
		end:       end,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ItemID returns the booked item's ID.
func (b *Booking) ItemID() uuid.UUID { return b.itemID }

// BookerID returns the requesting user's ID.
func (b *Booking) BookerID() uuid.UUID { return b.bookerID }

// Start returns the beginning of the rental window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the rental window.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsBooker reports whether userID requested this booking.
func (b *Booking) IsBooker(userID uuid.UUID) bool { return b.bookerID == userID }

// --- Behavior ---

// Confirm records the owner's decision. Only re-applying the current decision is
// refused; any other combination overwrites the status.
func (b *Booking) Confirm(approve bool) error {
	if !b.status.IsValid() {
		return domain.NewInvalidStateError(string(b.status), string(decisionStatus(approve)))
	}
	switch {
	case approve && b.status == StatusApproved:
		return domain.NewValidationError("booking already confirmed")
	case !approve && b.status == StatusRejected:
		return domain.NewValidationError("booking already rejected")
	}
	b.status = decisionStatus(approve)
	b.updatedAt = time.Now().UTC()
	return nil
}

func decisionStatus(approve bool) BookingStatus {
	if approve {
		return StatusApproved
	}
	return StatusRejected
}

// Cancel withdraws a waiting or approved booking on behalf of the booker.
func (b *Booking) Cancel() error {
	switch b.status {
	case StatusCanceled:
		return domain.NewValidationError("booking already canceled")
	case StatusRejected:
		return domain.NewValidationError("rejected booking cannot be canceled")
	}
	if !b.status.CanBeCanceled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCanceled))
	}
	b.status = StatusCanceled
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
