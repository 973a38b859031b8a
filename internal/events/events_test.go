package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewEvent(EventPurchaseCompleted, map[string]uint{"purchase_id": 7})
	after := time.Now().UTC()

	if event.ID == "" {
		t.Error("ID not assigned")
	}
	if event.Type != EventPurchaseCompleted {
		t.Errorf("Type = %q, want %q", event.Type, EventPurchaseCompleted)
	}
	if event.Source != "catalog-service" {
		t.Errorf("Source = %q, want catalog-service", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", event.Version)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("Timestamp %v outside [%v, %v]", event.Timestamp, before, after)
	}

	other := NewEvent(EventPurchaseCompleted, nil)
	if other.ID == event.ID {
		t.Error("two events share an ID")
	}
}

func TestMockEventPublisher(t *testing.T) {
	ctx := context.Background()
	publisher := NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := publisher.Publish(ctx, TopicPurchases, NewEvent(EventPurchaseCompleted, nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := publisher.Publish(ctx, TopicEnrollments, NewEvent(EventEnrollmentCreated, nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("recorded %d events, want 2", len(published))
	}
	if published[0].Type != EventPurchaseCompleted || published[1].Type != EventEnrollmentCreated {
		t.Errorf("recorded order wrong: %q, %q", published[0].Type, published[1].Type)
	}

	publisher.ClearEvents()
	if n := len(publisher.GetPublishedEvents()); n != 0 {
		t.Errorf("events after clear = %d, want 0", n)
	}

	if err := publisher.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
