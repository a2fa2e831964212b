package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

type sampleEvent struct {
	BaseEvent
	Amount string `json:"amount"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	event := NewBaseEvent("ContractRecalculated", aggregateID, "ContractAnalysis", at)

	if event.EventID() == uuid.Nil {
		t.Error("expected non-nil event ID")
	}
	if event.EventType() != "ContractRecalculated" {
		t.Errorf("expected event type %q, got %q", "ContractRecalculated", event.EventType())
	}
	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}
	if event.AggregateType() != "ContractAnalysis" {
		t.Errorf("expected aggregate type %q, got %q", "ContractAnalysis", event.AggregateType())
	}
	if !event.OccurredAt().Equal(at) || event.OccurredAt().Location() != time.UTC {
		t.Errorf("expected occurredAt %v in UTC, got %v", at, event.OccurredAt())
	}
}

func TestNewBaseEventDefaultsTime(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("Event", uuid.New(), "Aggregate", time.Time{})
	after := time.Now().UTC()

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewOutboxEntry(t *testing.T) {
	aggregateID := uuid.New()
	event := sampleEvent{
		BaseEvent: NewBaseEvent("ContractIrregular", aggregateID, "ContractAnalysis", time.Now()),
		Amount:    "1617.67",
	}

	entry, err := NewOutboxEntry(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.ID != event.EventID() {
		t.Errorf("expected outbox ID %v, got %v", event.EventID(), entry.ID)
	}
	if entry.AggregateID != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, entry.AggregateID)
	}
	if entry.EventType != "ContractIrregular" {
		t.Errorf("expected event type %q, got %q", "ContractIrregular", entry.EventType)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(entry.Payload, &parsed); err != nil {
		t.Fatalf("expected valid JSON payload, got error: %v", err)
	}
	if parsed["amount"] != "1617.67" {
		t.Errorf("expected payload amount 1617.67, got %v", parsed["amount"])
	}
	if len(parsed) != 1 {
		t.Errorf("expected only event fields in payload, got %v", parsed)
	}

	if !entry.CreatedAt.Equal(event.OccurredAt()) {
		t.Errorf("expected created at %v, got %v", event.OccurredAt(), entry.CreatedAt)
	}
	if entry.PublishedAt != nil {
		t.Error("expected published at to be nil")
	}
}

func TestNewOutboxEntries(t *testing.T) {
	id := uuid.New()
	entries, err := NewOutboxEntries([]DomainEvent{
		NewBaseEvent("Event1", id, "Aggregate", time.Time{}),
		NewBaseEvent("Event2", id, "Aggregate", time.Time{}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].EventType != "Event2" {
		t.Errorf("expected second entry type %q, got %q", "Event2", entries[1].EventType)
	}
}
