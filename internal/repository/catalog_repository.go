package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogDomain "github.com/shareit/service-booking/internal/domain/catalog"
	"github.com/shareit/service-booking/pkg/domain"
)

// UserModel is the GORM model for the users projection table.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(512);not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (UserModel) TableName() string { return "users" }

// ItemModel is the GORM model for the items projection table.
type ItemModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	Available   bool       `gorm:"not null"`
	RequestID   *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName overrides the default table name.
func (ItemModel) TableName() string { return "items" }

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Exists reports whether the user is present in the projection.
func (r *GormUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// FindByID retrieves a user by its ID.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalogDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUserDomain(&model), nil
}

// FindByIDs retrieves the users with the given IDs, keyed by ID. Unknown IDs are absent.
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalogDomain.User, error) {
	users := make(map[uuid.UUID]*catalogDomain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var models []UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	for i := range models {
		users[models[i].ID] = toUserDomain(&models[i])
	}
	return users, nil
}

// Upsert inserts the user or overwrites the projected fields.
func (r *GormUserRepository) Upsert(ctx context.Context, user *catalogDomain.User) error {
	model := toUserModel(user)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by its ID.
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalogDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Item", id.String())
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return toItemDomain(&model), nil
}

// ExistsByOwner reports whether the owner has at least one item.
func (r *GormItemRepository) ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ItemModel{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check owner items: %w", err)
	}
	return count > 0, nil
}

// FindByIDs retrieves the items with the given IDs, keyed by ID. Unknown IDs are absent.
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalogDomain.Item, error) {
	items := make(map[uuid.UUID]*catalogDomain.Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	var models []ItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	for i := range models {
		items[models[i].ID] = toItemDomain(&models[i])
	}
	return items, nil
}

// Upsert inserts the item or overwrites the projected fields.
func (r *GormItemRepository) Upsert(ctx context.Context, item *catalogDomain.Item) error {
	model := toItemModel(item)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"owner_id", "name", "description", "available", "request_id", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// Delete removes the item together with its bookings.
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&BookingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete item bookings: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&ItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return nil
	})
}

// --- Conversions ---

func toUserModel(u *catalogDomain.User) *UserModel {
	return &UserModel{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func toUserDomain(m *UserModel) *catalogDomain.User {
	return catalogDomain.ReconstructUser(m.ID, m.Name, m.Email, m.UpdatedAt)
}

func toItemModel(i *catalogDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          i.ID(),
		OwnerID:     i.OwnerID(),
		Name:        i.Name(),
		Description: i.Description(),
		Available:   i.Available(),
		RequestID:   i.RequestID(),
		UpdatedAt:   i.UpdatedAt(),
	}
}

func toItemDomain(m *ItemModel) *catalogDomain.Item {
	return catalogDomain.ReconstructItem(
		m.ID, m.OwnerID,
		m.Name, m.Description,
		m.Available,
		m.RequestID,
		m.UpdatedAt,
	)
}
