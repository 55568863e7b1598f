package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shareit/service-booking/pkg/domain"
	"github.com/shareit/service-booking/pkg/events"
	"github.com/shareit/service-booking/pkg/kafka"
)

type fakeProjector struct {
	users   []events.UserUpsertedEvent
	items   []events.ItemUpsertedEvent
	deleted []uuid.UUID
	err     error
}

func (f *fakeProjector) UpsertUser(_ context.Context, evt events.UserUpsertedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, evt)
	return nil
}

func (f *fakeProjector) UpsertItem(_ context.Context, evt events.ItemUpsertedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, evt)
	return nil
}

func (f *fakeProjector) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, itemID)
	return nil
}

func newTestConsumer(p CatalogProjector) *CatalogEventConsumer {
	return &CatalogEventConsumer{projector: p, logger: zap.NewNop()}
}

func message(t *testing.T, topic, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("test", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: topic, Value: raw}
}

func TestCatalogEventConsumer_Dispatch(t *testing.T) {
	ctx := context.Background()
	p := &fakeProjector{}
	c := newTestConsumer(p)

	user := events.UserUpsertedEvent{ID: uuid.New(), Name: "dana", Email: "dana@example.com"}
	item := events.ItemUpsertedEvent{ID: uuid.New(), OwnerID: user.ID, Name: "tent", Available: true}

	require.NoError(t, c.handleMessage(ctx, message(t, events.TopicUserEvents, events.UserUpserted, user)))
	require.NoError(t, c.handleMessage(ctx, message(t, events.TopicItemEvents, events.ItemUpserted, item)))
	require.NoError(t, c.handleMessage(ctx, message(t, events.TopicItemEvents, events.ItemDeleted, events.ItemDeletedEvent{ID: item.ID})))
	require.NoError(t, c.handleMessage(ctx, message(t, events.TopicItemEvents, "item.archived", item)))

	require.Len(t, p.users, 1)
	assert.Equal(t, user, p.users[0])
	require.Len(t, p.items, 1)
	assert.Equal(t, item.ID, p.items[0].ID)
	assert.True(t, p.items[0].Available)
	assert.Equal(t, []uuid.UUID{item.ID}, p.deleted)
}

func TestCatalogEventConsumer_Malformed(t *testing.T) {
	ctx := context.Background()
	p := &fakeProjector{}
	c := newTestConsumer(p)

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, message(t, events.TopicUserEvents, events.UserUpserted, "just a string")))
	assert.Empty(t, p.users)
}

func TestCatalogEventConsumer_Errors(t *testing.T) {
	ctx := context.Background()
	msg := message(t, events.TopicUserEvents, events.UserUpserted, events.UserUpsertedEvent{ID: uuid.New()})

	t.Run("invalid payload is dropped", func(t *testing.T) {
		c := newTestConsumer(&fakeProjector{err: domain.NewValidationError("user name is required")})
		assert.NoError(t, c.handleMessage(ctx, msg))
	})

	t.Run("storage failure is retried", func(t *testing.T) {
		storageErr := errors.New("connection reset")
		c := newTestConsumer(&fakeProjector{err: storageErr})
		assert.ErrorIs(t, c.handleMessage(ctx, msg), storageErr)
	})
}
