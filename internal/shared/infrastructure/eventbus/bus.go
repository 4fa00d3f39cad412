// Package eventbus delivers domain events to in-process consumers.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/tasker/internal/shared/domain"
	"github.com/felixgeelhaar/tasker/pkg/observability"
)

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, events ...domain.DomainEvent) error
}

// Bus dispatches events synchronously to registered consumers. Consumer
// failures are logged and never returned to the publisher.
type Bus struct {
	registry *Registry
	logger   *slog.Logger
}

// New creates an in-process bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		registry: NewRegistry(logger),
		logger:   logger,
	}
}

// Subscribe registers an event consumer.
func (b *Bus) Subscribe(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Registry returns the underlying consumer registry.
func (b *Bus) Registry() *Registry {
	return b.registry
}

// Publish wraps each event in an envelope and dispatches it. It only fails
// when an event cannot be encoded.
func (b *Bus) Publish(ctx context.Context, events ...domain.DomainEvent) error {
	for _, e := range events {
		envelope, err := NewEvent(ctx, e)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := b.registry.Dispatch(ctx, envelope); err != nil {
			b.logger.ErrorContext(ctx, "event dispatch failed",
				"routing_key", envelope.RoutingKey,
				"event_id", envelope.EventID,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			continue
		}
		b.logger.DebugContext(ctx, "event dispatched",
			"routing_key", envelope.RoutingKey,
			"event_id", envelope.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return nil
}

// NewEvent builds the envelope of a domain event. The event's exported fields
// become the payload.
func NewEvent(ctx context.Context, e domain.DomainEvent) (*Event, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", e.RoutingKey(), err)
	}
	return &Event{
		EventID:       e.EventID(),
		AggregateID:   e.AggregateID(),
		AggregateType: e.AggregateType(),
		RoutingKey:    e.RoutingKey(),
		OccurredAt:    e.OccurredAt(),
		Payload:       payload,
		CorrelationID: observability.CorrelationIDFromContext(ctx),
	}, nil
}
