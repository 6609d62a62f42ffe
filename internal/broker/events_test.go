package broker

import (
	"context"
	"testing"
	"time"

	"order-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segmentsEvent() *models.SegmentsComputedEvent {
	return &models.SegmentsComputedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e1",
			EventType: models.EventTypeSegmentsComputed,
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		DatasetID: "ds1",
		Customers: 3,
		Segments:  map[string]int{models.SegmentHighValue: 2, models.SegmentLowValue: 1},
	}
}

func TestHandleMessage_RoutesSegmentsComputed(t *testing.T) {
	msg, err := encodeMessage("dataset-ds1", segmentsEvent())
	require.NoError(t, err)

	var got *models.SegmentsComputedEvent
	h := NewEventHandler()
	h.OnSegmentsComputed(func(_ context.Context, e *models.SegmentsComputedEvent) error {
		got = e
		return nil
	})

	require.NoError(t, h.HandleMessage(context.Background(), msg))
	require.NotNil(t, got)
	assert.Equal(t, "ds1", got.DatasetID)
	assert.Equal(t, 2, got.Segments[models.SegmentHighValue])
	assert.Equal(t, "dataset-ds1", string(msg.Key))
}

func TestHandleMessage_IgnoresUnknownType(t *testing.T) {
	msg, err := encodeMessage("k", models.BaseEvent{EventID: "e2", EventType: "SOMETHING_ELSE"})
	require.NoError(t, err)

	called := false
	h := NewEventHandler()
	h.OnSegmentsComputed(func(context.Context, *models.SegmentsComputedEvent) error {
		called = true
		return nil
	})

	assert.NoError(t, h.HandleMessage(context.Background(), msg))
	assert.False(t, called)
}

func TestHandleMessage_RejectsGarbage(t *testing.T) {
	msg, err := encodeMessage("k", "not an object")
	require.NoError(t, err)

	assert.Error(t, NewEventHandler().HandleMessage(context.Background(), msg))
}
