package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/shareit/service-booking/pkg/domain"
)

// Role is the side of a booking a listing is scoped to.
type Role int

const (
	// RoleBooker scopes to bookings the actor requested.
	RoleBooker Role = iota
	// RoleOwner scopes to bookings of items the actor owns.
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "booker"
}

// Page is the from/size window of a listing. A from that is not a multiple of
// size snaps down to the start of its page.
type Page struct {
	From int
	Size int
}

// NewPage validates the window.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, domain.NewValidationError("from must not be negative")
	}
	if size < 1 {
		return Page{}, domain.NewValidationError("size must be positive")
	}
	return Page{From: from, Size: size}, nil
}

// Index returns the zero-based page number.
func (p Page) Index() int { return p.From / p.Size }

// Offset returns the first row of the page.
func (p Page) Offset() int { return p.Index() * p.Size }

// Query describes a single listing call. Now is fixed once per call so every
// predicate sees the same instant.
type Query struct {
	Role    Role
	ActorID uuid.UUID
	State   State
	Now     time.Time
	Page    Page
}
