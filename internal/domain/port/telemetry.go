package port

import (
	"context"

	"github.com/devflexlabs/flex-analise-backend/pkg/events"
)

// Metrics records business counters for recalculation outcomes.
type Metrics interface {
	RecordRecalculation(ctx context.Context, outcome string)
	RecordIrregular(ctx context.Context)
	RecordRateLookup(ctx context.Context, index, result string)
}

// Recalculation outcomes reported through Metrics.
const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

// Reference rate lookup results reported through Metrics.
const (
	LookupFound = "found"
	LookupMiss  = "miss"
)

// OutboxStore reads and acknowledges persisted domain events.
type OutboxStore = events.OutboxRepository

// MessagePublisher delivers outbox entries to the message broker.
type MessagePublisher = events.EntryPublisher
