package models

import "time"

// Event types
const (
	EventTypeSegmentsComputed = "SEGMENTS_COMPUTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SegmentsComputedEvent published after an RFM table has been computed
type SegmentsComputedEvent struct {
	BaseEvent
	DatasetID     string         `json:"dataset_id"`
	ReferenceTime time.Time      `json:"reference_time"`
	Customers     int            `json:"customers"`
	Segments      map[string]int `json:"segments"`
}
