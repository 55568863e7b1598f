package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/shareit/service-booking/internal/domain/booking"
	catalogDomain "github.com/shareit/service-booking/internal/domain/catalog"
	"github.com/shareit/service-booking/internal/metrics"
	"github.com/shareit/service-booking/pkg/domain"
	"github.com/shareit/service-booking/pkg/events"
	"github.com/shareit/service-booking/pkg/kafka"
)

const eventSource = "service-booking"

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEventWithKey(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// ItemShortDTO is the item summary embedded in a booking view.
type ItemShortDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
}

// UserShortDTO is the booker summary embedded in a booking view.
type UserShortDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     uuid.UUID    `json:"id"`
	Item   ItemShortDTO `json:"item"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Booker UserShortDTO `json:"booker"`
	Status string       `json:"status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo           bookingDomain.BookingRepository
	users          catalogDomain.UserRepository
	items          catalogDomain.ItemRepository
	producer       EventPublisher
	logger         *zap.Logger
	preventOverlap bool
	now            func() time.Time
}

// Option customizes a BookingService.
type Option func(*BookingService)

// WithOverlapPrevention makes CreateBooking refuse windows that overlap a
// waiting or approved booking of the same item.
func WithOverlapPrevention(enabled bool) Option {
	return func(s *BookingService) { s.preventOverlap = enabled }
}

// WithClock replaces the time source used for listings and summaries.
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) { s.now = now }
}

// NewBookingService creates a new BookingService. producer may be nil, in which
// case no events are published.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	users catalogDomain.UserRepository,
	items catalogDomain.ItemRepository,
	producer EventPublisher,
	logger *zap.Logger,
	opts ...Option,
) *BookingService {
	s := &BookingService{
		repo:     repo,
		users:    users,
		items:    items,
		producer: producer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking requests an item for a period on behalf of the booker.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	if err := bookingDomain.ValidatePeriod(req.Start, req.End); err != nil {
		return nil, err
	}

	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available() {
		return nil, domain.NewValidationError(fmt.Sprintf("item %s is not available for booking", item.ID()))
	}
	if item.IsOwnedBy(bookerID) {
		return nil, domain.NewNotFoundErrorf("Item", "owner cannot book own item %s", item.ID())
	}

	bk, err := bookingDomain.NewBooking(item.ID(), bookerID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	if s.preventOverlap {
		err = s.repo.SaveExclusive(ctx, bk)
	} else {
		err = s.repo.Save(ctx, bk)
	}
	if err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(string(bk.Status()))
	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("item_id", item.ID().String()),
		zap.String("booker_id", bookerID.String()),
	)
	s.publishBookingEvent(ctx, events.BookingCreated, bk, item.OwnerID())

	result := toBookingDTO(bk, item, booker)
	return &result, nil
}

// ConfirmBooking records the item owner's approval or rejection.
func (s *BookingService) ConfirmBooking(ctx context.Context, ownerID, bookingID uuid.UUID, approved bool) (*BookingDTO, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(ownerID) {
		return nil, domain.NewNotFoundErrorf("Booking", "only the item owner may confirm booking %s", bk.ID())
	}

	if err := bk.Confirm(approved); err != nil {
		return nil, err
	}

	booker, err := s.optionalUser(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	eventType := events.BookingRejected
	if approved {
		eventType = events.BookingApproved
	}
	metrics.IncBookingTransition(string(bk.Status()))
	s.logger.Info("booking confirmed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", string(bk.Status())),
	)
	s.publishBookingEvent(ctx, eventType, bk, item.OwnerID())

	result := toBookingDTO(bk, item, booker)
	return &result, nil
}

// CancelBooking withdraws a booking on behalf of its booker.
func (s *BookingService) CancelBooking(ctx context.Context, bookerID, bookingID uuid.UUID) (*BookingDTO, error) {
	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsBooker(bookerID) {
		return nil, domain.NewNotFoundErrorf("Booking", "only the booker may cancel booking %s", bk.ID())
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	item, err := s.optionalItem(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	ownerID := uuid.Nil
	if item != nil {
		ownerID = item.OwnerID()
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(string(bk.Status()))
	s.logger.Info("booking canceled", zap.String("booking_id", bk.ID().String()))
	s.publishBookingEvent(ctx, events.BookingCanceled, bk, ownerID)

	result := toBookingDTO(bk, item, booker)
	return &result, nil
}

// GetBooking returns a booking visible to its booker or the item owner.
func (s *BookingService) GetBooking(ctx context.Context, requesterID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !bk.IsBooker(requesterID) && !item.IsOwnedBy(requesterID) {
		return nil, domain.NewNotFoundErrorf("Booking",
			"booking %s is visible only to its booker or the item owner", bk.ID())
	}

	booker, err := s.users.FindByID(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk, item, booker)
	return &result, nil
}

// ListForBooker returns the booker's bookings in the given state, newest start first.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID uuid.UUID, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.RoleBooker, bookerID, state, from, size)
}

// ListForOwner returns bookings of the owner's items in the given state, newest start first.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID uuid.UUID, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.RoleOwner, ownerID, state, from, size)
}

func (s *BookingService) list(ctx context.Context, role bookingDomain.Role, actorID uuid.UUID, rawState string, from, size int) ([]BookingDTO, error) {
	if err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	if role == bookingDomain.RoleOwner {
		hasItems, err := s.items.ExistsByOwner(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !hasItems {
			return nil, domain.NewNotFoundErrorf("Item", "user %s has no items", actorID)
		}
	}

	state, err := bookingDomain.ParseState(rawState)
	if err != nil {
		return nil, err
	}
	page, err := bookingDomain.NewPage(from, size)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Find(ctx, bookingDomain.Query{
		Role:    role,
		ActorID: actorID,
		State:   state,
		Now:     s.now(),
		Page:    page,
	})
	if err != nil {
		return nil, err
	}
	return s.toBookingDTOs(ctx, bookings)
}

// --- Helpers ---

func (s *BookingService) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewNotFoundError("User", userID.String())
	}
	return nil
}

// optionalUser returns nil when the user projection has no row for id.
func (s *BookingService) optionalUser(ctx context.Context, id uuid.UUID) (*catalogDomain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return nil, nil
	}
	return user, err
}

// optionalItem returns nil when the item projection has no row for id.
func (s *BookingService) optionalItem(ctx context.Context, id uuid.UUID) (*catalogDomain.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return nil, nil
	}
	return item, err
}

// toBookingDTOs resolves item and booker summaries with one lookup each.
func (s *BookingService) toBookingDTOs(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	dtos := make([]BookingDTO, 0, len(bookings))
	if len(bookings) == 0 {
		return dtos, nil
	}

	var itemIDs, bookerIDs []uuid.UUID
	seenItems := make(map[uuid.UUID]bool)
	seenBookers := make(map[uuid.UUID]bool)
	for _, bk := range bookings {
		if !seenItems[bk.ItemID()] {
			seenItems[bk.ItemID()] = true
			itemIDs = append(itemIDs, bk.ItemID())
		}
		if !seenBookers[bk.BookerID()] {
			seenBookers[bk.BookerID()] = true
			bookerIDs = append(bookerIDs, bk.BookerID())
		}
	}

	items, err := s.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	bookers, err := s.users.FindByIDs(ctx, bookerIDs)
	if err != nil {
		return nil, err
	}

	for _, bk := range bookings {
		dtos = append(dtos, toBookingDTO(bk, items[bk.ItemID()], bookers[bk.BookerID()]))
	}
	return dtos, nil
}

// toBookingDTO tolerates a missing item or booker projection and keeps only its ID.
func toBookingDTO(bk *bookingDomain.Booking, item *catalogDomain.Item, booker *catalogDomain.User) BookingDTO {
	dto := BookingDTO{
		ID:     bk.ID(),
		Item:   ItemShortDTO{ID: bk.ItemID()},
		Start:  bk.Start(),
		End:    bk.End(),
		Booker: UserShortDTO{ID: bk.BookerID()},
		Status: string(bk.Status()),
	}
	if item != nil {
		dto.Item = ItemShortDTO{
			ID:          item.ID(),
			Name:        item.Name(),
			Description: item.Description(),
			Available:   item.Available(),
		}
	}
	if booker != nil {
		dto.Booker = UserShortDTO{
			ID:    booker.ID(),
			Name:  booker.Name(),
			Email: booker.Email(),
		}
	}
	return dto
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, ownerID uuid.UUID) {
	evt := events.BookingEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    ownerID,
		Start:      bk.Start(),
		End:        bk.End(),
		Status:     string(bk.Status()),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if s.producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEventWithKey(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
