package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Topics for downstream consumers
const (
	TopicPurchases   = "catalog.purchases"
	TopicEnrollments = "catalog.enrollments"
	TopicProgress    = "catalog.progress"
)

// Event types
const (
	EventPurchaseCompleted     = "purchase.completed"
	EventPurchaseFailed        = "purchase.failed"
	EventPurchaseRefunded      = "purchase.refunded"
	EventPurchaseAmountAnomaly = "purchase.amount_anomaly"

	EventEnrollmentCreated   = "enrollment.created"
	EventEnrollmentCompleted = "enrollment.completed"
	EventEnrollmentCancelled = "enrollment.cancelled"

	EventProgressUpdated = "progress.updated"
	EventReviewCreated   = "review.created"
)

// Event is the envelope wrapping every message this service publishes.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "catalog-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to a topic. Publishing is
// best-effort from the caller's point of view; ledger writes never
// roll back because a broker was unreachable.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}
