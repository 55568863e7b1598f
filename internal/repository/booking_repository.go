package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/shareit/service-booking/internal/domain/booking"
	"github.com/shareit/service-booking/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_item_start,priority:1"`
	BookerID uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_booker_start,priority:1"`
	StartAt  time.Time `gorm:"not null;index:idx_bookings_item_start,priority:2,sort:desc;index:idx_bookings_booker_start,priority:2,sort:desc"`
	EndAt    time.Time `gorm:"not null"`
	Status   string    `gorm:"not null;size:20;index"`
	Version  int64     `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// statePredicates narrows a booking query to one listing state. Columns are
// qualified because owner listings join the items table.
var statePredicates = map[bookingDomain.State]func(tx *gorm.DB, now time.Time) *gorm.DB{
	bookingDomain.StateAll: func(tx *gorm.DB, _ time.Time) *gorm.DB {
		return tx
	},
	bookingDomain.StateCurrent: func(tx *gorm.DB, now time.Time) *gorm.DB {
		return tx.Where("bookings.start_at <= ? AND bookings.end_at >= ?", now, now)
	},
	bookingDomain.StatePast: func(tx *gorm.DB, now time.Time) *gorm.DB {
		return tx.Where("bookings.end_at < ?", now)
	},
	bookingDomain.StateFuture: func(tx *gorm.DB, now time.Time) *gorm.DB {
		return tx.Where("bookings.start_at > ?", now)
	},
	bookingDomain.StateWaiting: func(tx *gorm.DB, _ time.Time) *gorm.DB {
		return tx.Where("bookings.status = ?", string(bookingDomain.StatusWaiting))
	},
	bookingDomain.StateRejected: func(tx *gorm.DB, _ time.Time) *gorm.DB {
		return tx.Where("bookings.status = ?", string(bookingDomain.StatusRejected))
	},
}

// roleScope restricts bookings to those the actor requested or those of items
// the actor owns.
func roleScope(role bookingDomain.Role, actorID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if role == bookingDomain.RoleOwner {
			return tx.Joins("JOIN items ON items.id = bookings.item_id").
				Where("items.owner_id = ?", actorID)
		}
		return tx.Where("bookings.booker_id = ?", actorID)
	}
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Find returns one page of bookings for the query, ordered by start descending.
func (r *GormBookingRepository) Find(ctx context.Context, q bookingDomain.Query) ([]*bookingDomain.Booking, error) {
	predicate, ok := statePredicates[q.State]
	if !ok {
		return nil, domain.NewUnsupportedStateError(string(q.State))
	}
	if q.Page.Size < 1 {
		return nil, domain.NewValidationError("size must be positive")
	}

	tx := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Select("bookings.*").
		Scopes(roleScope(q.Role, q.ActorID))
	tx = predicate(tx, q.Now.UTC())

	var models []BookingModel
	if err := tx.
		Order("bookings.start_at DESC").
		Order("bookings.id").
		Offset(q.Page.Offset()).
		Limit(q.Page.Size).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s bookings: %w", q.Role, err)
	}
	return toDomainBookings(models)
}

// FindLastForItem returns the latest non-rejected booking that started before now.
func (r *GormBookingRepository) FindLastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	return r.findOne(ctx, "bookings.start_at DESC",
		"item_id = ? AND start_at < ? AND status <> ?",
		itemID, now.UTC(), string(bookingDomain.StatusRejected))
}

// FindNextForItem returns the earliest non-rejected booking that starts after now.
func (r *GormBookingRepository) FindNextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	return r.findOne(ctx, "bookings.start_at ASC",
		"item_id = ? AND start_at > ? AND status <> ?",
		itemID, now.UTC(), string(bookingDomain.StatusRejected))
}

// FindLatestFinishedByBookerAndItem returns the most recently ended non-rejected
// booking of the item by the booker.
func (r *GormBookingRepository) FindLatestFinishedByBookerAndItem(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) (*bookingDomain.Booking, error) {
	return r.findOne(ctx, "bookings.end_at DESC",
		"booker_id = ? AND item_id = ? AND end_at < ? AND status <> ?",
		bookerID, itemID, now.UTC(), string(bookingDomain.StatusRejected))
}

// findOne returns nil without error when nothing matches.
func (r *GormBookingRepository) findOne(ctx context.Context, order string, query string, args ...interface{}) (*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order(order).
		Limit(1).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return toDomainBooking(&models[0])
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// SaveExclusive inserts the booking while holding a lock on the item row, so two
// overlapping requests for the same item are serialized and the second one fails.
func (r *GormBookingRepository) SaveExclusive(ctx context.Context, bk *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item ItemModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bk.ItemID()).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Item", bk.ItemID().String())
			}
			return fmt.Errorf("failed to lock item: %w", err)
		}

		var overlapping int64
		if err := tx.Model(&BookingModel{}).
			Where("item_id = ? AND status IN ? AND start_at < ? AND end_at > ?",
				bk.ItemID(),
				[]string{string(bookingDomain.StatusWaiting), string(bookingDomain.StatusApproved)},
				bk.End().UTC(), bk.Start().UTC()).
			Count(&overlapping).Error; err != nil {
			return fmt.Errorf("failed to check overlapping bookings: %w", err)
		}
		if overlapping > 0 {
			return domain.NewConflictError("item is already booked for the requested period")
		}

		if err := tx.Create(toBookingModel(bk)).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// IncrementVersion has already been called on the aggregate.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"start_at":   model.StartAt,
			"end_at":     model.EndAt,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		StartAt:   bk.Start().UTC(),
		EndAt:     bk.End().UTC(),
		Status:    string(bk.Status()),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ItemID,
		m.BookerID,
		m.StartAt.UTC(),
		m.EndAt.UTC(),
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
