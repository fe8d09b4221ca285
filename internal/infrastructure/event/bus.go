package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/erp/warehouse/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers stock events to in-process handlers synchronously.
// It is only ever called after the producing transaction committed, so a failing
// handler is logged and never rolls anything back.
type InMemoryEventBus struct {
	registry  *HandlerRegistry
	logger    *zap.Logger
	running   atomic.Bool
	published atomic.Int64
	failed    atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish hands every event to its handlers in order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		b.published.Add(1)
		for _, h := range b.registry.HandlersFor(ev.EventType()) {
			if err := b.dispatch(ctx, h, ev); err != nil {
				b.failed.Add(1)
				b.logger.Error("event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("aggregate_id", ev.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler; with no explicit types the handler's own EventTypes apply
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Int("handlers", b.registry.Len()))
	return nil
}

// Stop marks the bus as stopped
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped",
		zap.Int64("published", b.published.Load()),
		zap.Int64("failed", b.failed.Load()),
	)
	return nil
}

// Running reports whether Start was called without a later Stop
func (b *InMemoryEventBus) Running() bool {
	return b.running.Load()
}

// Stats returns how many events were published and how many deliveries failed
func (b *InMemoryEventBus) Stats() (published, failed int64) {
	return b.published.Load(), b.failed.Load()
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
