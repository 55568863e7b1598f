package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareit/service-booking/pkg/domain"
	"github.com/shareit/service-booking/pkg/events"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ownerID := uuid.New()
	itemID := uuid.New()

	require.NoError(t, env.catalog.UpsertUser(ctx, events.UserUpsertedEvent{
		ID: ownerID, Name: "dana", Email: "dana@example.com",
	}))
	require.NoError(t, env.catalog.UpsertItem(ctx, events.ItemUpsertedEvent{
		ID: itemID, OwnerID: ownerID, Name: "tent", Available: true,
	}))

	item, err := env.items.FindByID(ctx, itemID)
	require.NoError(t, err)
	assert.True(t, item.Available())

	require.NoError(t, env.catalog.UpsertItem(ctx, events.ItemUpsertedEvent{
		ID: itemID, OwnerID: ownerID, Name: "tent", Available: false,
	}))
	item, err = env.items.FindByID(ctx, itemID)
	require.NoError(t, err)
	assert.False(t, item.Available())

	t.Run("invalid payloads", func(t *testing.T) {
		var ve *domain.ValidationError
		assert.True(t, errors.As(env.catalog.UpsertUser(ctx, events.UserUpsertedEvent{ID: uuid.New()}), &ve))
		assert.True(t, errors.As(env.catalog.UpsertItem(ctx, events.ItemUpsertedEvent{ID: uuid.New()}), &ve))
		assert.True(t, errors.As(env.catalog.DeleteItem(ctx, uuid.Nil), &ve))
	})

	t.Run("delete removes item bookings", func(t *testing.T) {
		booker := env.user(t, "booker")
		require.NoError(t, env.catalog.UpsertItem(ctx, events.ItemUpsertedEvent{
			ID: itemID, OwnerID: ownerID, Name: "tent", Available: true,
		}))
		env.book(t, booker, itemID, day, 2*day)

		require.NoError(t, env.catalog.DeleteItem(ctx, itemID))
		_, err := env.items.FindByID(ctx, itemID)
		assertNotFound(t, err)
		assert.Zero(t, env.totalBookings(t))
	})
}
