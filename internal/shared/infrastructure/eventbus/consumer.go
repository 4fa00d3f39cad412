package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventConsumer handles specific event types.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["task.completed"].
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *Event) error
}

// Event is the envelope delivered to consumers.
type Event struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// ConsumerFunc adapts a function to EventConsumer.
type ConsumerFunc struct {
	Types []string
	Fn    func(ctx context.Context, event *Event) error
}

// EventTypes implements EventConsumer.
func (c ConsumerFunc) EventTypes() []string { return c.Types }

// Handle implements EventConsumer.
func (c ConsumerFunc) Handle(ctx context.Context, event *Event) error { return c.Fn(ctx, event) }
