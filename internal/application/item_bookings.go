package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/shareit/service-booking/internal/domain/booking"
)

// BookingShortDTO is the compact booking reference shown on an item page.
type BookingShortDTO struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ItemBookingSummaryDTO lists the bookings around now for an item. Both are
// null unless the requester owns the item.
type ItemBookingSummaryDTO struct {
	ItemID      uuid.UUID        `json:"item_id"`
	LastBooking *BookingShortDTO `json:"last_booking"`
	NextBooking *BookingShortDTO `json:"next_booking"`
}

// CommentEligibilityDTO tells whether a user may comment on an item.
type CommentEligibilityDTO struct {
	UserID   uuid.UUID `json:"user_id"`
	ItemID   uuid.UUID `json:"item_id"`
	Eligible bool      `json:"eligible"`
}

// ItemBookingSummary returns the last and next non-rejected bookings of an item
// for its owner.
func (s *BookingService) ItemBookingSummary(ctx context.Context, requesterID, itemID uuid.UUID) (*ItemBookingSummaryDTO, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	summary := &ItemBookingSummaryDTO{ItemID: item.ID()}
	if !item.IsOwnedBy(requesterID) {
		return summary, nil
	}

	now := s.now()
	last, err := s.repo.FindLastForItem(ctx, item.ID(), now)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.FindNextForItem(ctx, item.ID(), now)
	if err != nil {
		return nil, err
	}
	summary.LastBooking = toBookingShortDTO(last)
	summary.NextBooking = toBookingShortDTO(next)
	return summary, nil
}

// CommentEligibility reports whether the user has finished a non-rejected
// booking of the item.
func (s *BookingService) CommentEligibility(ctx context.Context, userID, itemID uuid.UUID) (*CommentEligibilityDTO, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	finished, err := s.repo.FindLatestFinishedByBookerAndItem(ctx, userID, item.ID(), s.now())
	if err != nil {
		return nil, err
	}
	return &CommentEligibilityDTO{
		UserID:   userID,
		ItemID:   item.ID(),
		Eligible: finished != nil,
	}, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

func toBookingShortDTO(bk *bookingDomain.Booking) *BookingShortDTO {
	if bk == nil {
		return nil
	}
	return &BookingShortDTO{
		ID:       bk.ID(),
		BookerID: bk.BookerID(),
		Start:    bk.Start(),
		End:      bk.End(),
	}
}
