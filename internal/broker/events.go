package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"order-analytics/internal/models"
	"order-analytics/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSegmentsComputed publishes SegmentsComputed event keyed by dataset
func (ep *EventPublisher) PublishSegmentsComputed(ctx context.Context, event *models.SegmentsComputedEvent) error {
	key := fmt.Sprintf("dataset-%s", event.DatasetID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onSegmentsComputed func(context.Context, *models.SegmentsComputedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnSegmentsComputed registers a handler for SegmentsComputed events
func (eh *EventHandler) OnSegmentsComputed(handler func(context.Context, *models.SegmentsComputedEvent) error) {
	eh.onSegmentsComputed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeSegmentsComputed:
		if eh.onSegmentsComputed != nil {
			var event models.SegmentsComputedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SegmentsComputed event: %w", err)
			}
			return eh.onSegmentsComputed(ctx, &event)
		}

	default:
		logger.Info("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
