package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shareit/service-booking/internal/application"
	"github.com/shareit/service-booking/internal/metrics"
	"github.com/shareit/service-booking/pkg/domain"
	"github.com/shareit/service-booking/pkg/events"
	"github.com/shareit/service-booking/pkg/kafka"
)

const (
	outcomeApplied  = "applied"
	outcomeSkipped  = "skipped"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// CatalogProjector applies user and item changes to the local projection.
type CatalogProjector interface {
	UpsertUser(ctx context.Context, evt events.UserUpsertedEvent) error
	UpsertItem(ctx context.Context, evt events.ItemUpsertedEvent) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

var _ CatalogProjector = (*application.CatalogService)(nil)

// CatalogEventConsumer keeps the user and item projection in sync with the registries.
type CatalogEventConsumer struct {
	consumer  *kafka.Consumer
	projector CatalogProjector
	logger    *zap.Logger
}

// NewCatalogEventConsumer creates a CatalogEventConsumer subscribed to the user and item topics.
func NewCatalogEventConsumer(
	brokers []string,
	groupID string,
	projector CatalogProjector,
	logger *zap.Logger,
) *CatalogEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, []string{events.TopicUserEvents, events.TopicItemEvents}, logger)
	return &CatalogEventConsumer{
		consumer:  consumer,
		projector: projector,
		logger:    logger,
	}
}

// Start begins consuming catalog events. This blocks until the context is cancelled.
func (c *CatalogEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CatalogEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CatalogEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from catalog topic",
			zap.String("topic", msg.Topic),
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		metrics.IncCatalogEvent("unknown", outcomeRejected)
		return nil // Don't retry malformed messages
	}

	var apply func() error
	switch cloudEvent.Type {
	case events.UserUpserted:
		var evt events.UserUpsertedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			return c.rejectData(cloudEvent, err)
		}
		apply = func() error { return c.projector.UpsertUser(ctx, evt) }
	case events.ItemUpserted:
		var evt events.ItemUpsertedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			return c.rejectData(cloudEvent, err)
		}
		apply = func() error { return c.projector.UpsertItem(ctx, evt) }
	case events.ItemDeleted:
		var evt events.ItemDeletedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			return c.rejectData(cloudEvent, err)
		}
		apply = func() error { return c.projector.DeleteItem(ctx, evt.ID) }
	default:
		c.logger.Debug("ignoring unhandled catalog event type",
			zap.String("type", cloudEvent.Type),
		)
		metrics.IncCatalogEvent(cloudEvent.Type, outcomeSkipped)
		return nil
	}

	if err := apply(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.logger.Warn("discarding invalid catalog event",
				zap.String("type", cloudEvent.Type),
				zap.String("event_id", cloudEvent.ID),
				zap.Error(err),
			)
			metrics.IncCatalogEvent(cloudEvent.Type, outcomeRejected)
			return nil
		}
		c.logger.Error("failed to apply catalog event",
			zap.String("type", cloudEvent.Type),
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		metrics.IncCatalogEvent(cloudEvent.Type, outcomeFailed)
		return err
	}

	c.logger.Debug("catalog event applied",
		zap.String("type", cloudEvent.Type),
		zap.String("event_id", cloudEvent.ID),
	)
	metrics.IncCatalogEvent(cloudEvent.Type, outcomeApplied)
	return nil
}

func (c *CatalogEventConsumer) rejectData(cloudEvent kafka.CloudEvent, err error) error {
	c.logger.Error("failed to parse catalog event data",
		zap.String("type", cloudEvent.Type),
		zap.Error(err),
	)
	metrics.IncCatalogEvent(cloudEvent.Type, outcomeRejected)
	return nil // Don't retry malformed data
}
