package entities

import "time"

// FeedbackEventType represents the type of feedback event
type FeedbackEventType string

const (
	// FeedbackEventCreated is emitted after a record has been stored
	FeedbackEventCreated FeedbackEventType = "feedback.created"
)

// FeedbackEvent is the message published for downstream consumers
// (dashboards, alerting) once a submission has been persisted.
type FeedbackEvent struct {
	ID               string            `json:"id"`
	Type             FeedbackEventType `json:"type"`
	FeedbackID       int64             `json:"feedback_id"`
	Category         string            `json:"category"`
	Rating           int               `json:"rating"`
	Sentiment        Sentiment         `json:"sentiment"`
	EnrichmentStatus EnrichmentStatus  `json:"enrichment_status"`
	Timestamp        time.Time         `json:"timestamp"`
}
