package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogDomain "github.com/shareit/service-booking/internal/domain/catalog"
	"github.com/shareit/service-booking/pkg/domain"
	"github.com/shareit/service-booking/pkg/events"
)

// CatalogService keeps the local user and item projections in step with the
// registries that own them.
type CatalogService struct {
	users  catalogDomain.UserRepository
	items  catalogDomain.ItemRepository
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(users catalogDomain.UserRepository, items catalogDomain.ItemRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{users: users, items: items, logger: logger}
}

// UpsertUser projects a user.upserted event.
func (s *CatalogService) UpsertUser(ctx context.Context, evt events.UserUpsertedEvent) error {
	user, err := catalogDomain.NewUser(evt.ID, evt.Name, evt.Email)
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("invalid user data: %v", err))
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		s.logger.Error("failed to project user", zap.Error(err))
		return fmt.Errorf("failed to project user: %w", err)
	}
	s.logger.Info("user projected", zap.String("user_id", user.ID().String()))
	return nil
}

// UpsertItem projects an item.upserted event.
func (s *CatalogService) UpsertItem(ctx context.Context, evt events.ItemUpsertedEvent) error {
	item, err := catalogDomain.NewItem(
		evt.ID, evt.OwnerID,
		evt.Name, evt.Description,
		evt.Available,
		evt.RequestID,
	)
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("invalid item data: %v", err))
	}
	if err := s.items.Upsert(ctx, item); err != nil {
		s.logger.Error("failed to project item", zap.Error(err))
		return fmt.Errorf("failed to project item: %w", err)
	}
	s.logger.Info("item projected",
		zap.String("item_id", item.ID().String()),
		zap.String("owner_id", item.OwnerID().String()),
		zap.Bool("available", item.Available()),
	)
	return nil
}

// DeleteItem removes an item from the projection. Its bookings go with it.
func (s *CatalogService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return domain.NewValidationError("item ID is required")
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		s.logger.Error("failed to delete item", zap.Error(err))
		return fmt.Errorf("failed to delete item: %w", err)
	}
	s.logger.Info("item removed", zap.String("item_id", itemID.String()))
	return nil
}
