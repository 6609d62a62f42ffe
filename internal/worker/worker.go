package worker

import (
	"context"

	"order-analytics/internal/broker"
	"order-analytics/internal/models"
	"order-analytics/internal/util"

	"go.uber.org/zap"
)

// SegmentSink receives every SegmentsComputed event the worker consumes
type SegmentSink func(ctx context.Context, event *models.SegmentsComputedEvent) error

// SegmentWorker follows the segment topic and hands events to a sink
type SegmentWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewSegmentWorker creates a new segment worker
func NewSegmentWorker(consumer *broker.Consumer, sink SegmentSink) *SegmentWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnSegmentsComputed(func(ctx context.Context, e *models.SegmentsComputedEvent) error {
		util.GetLogger().Info("Segments computed",
			zap.String("dataset_id", e.DatasetID),
			zap.Int("customers", e.Customers),
			zap.Time("reference_time", e.ReferenceTime))
		return sink(ctx, e)
	})

	return &SegmentWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start blocks until ctx is cancelled
func (w *SegmentWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting segment worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SegmentWorker) Stop() error {
	util.GetLogger().Info("Stopping segment worker")
	return w.consumer.Close()
}
