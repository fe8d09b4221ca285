package event

import (
	"sync"

	"github.com/erp/warehouse/internal/domain/shared"
)

// HandlerRegistry maps event types to the handlers subscribed to them.
// Handlers registered without types receive every event.
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register adds handler for the given event types, or for all events when none are given
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], handler)
	}
}

// Unregister removes handler everywhere it is registered
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = without(r.wildcard, handler)
	for t, hs := range r.byType {
		if hs = without(hs, handler); len(hs) == 0 {
			delete(r.byType, t)
		} else {
			r.byType[t] = hs
		}
	}
}

// HandlersFor returns the type-specific handlers followed by the wildcard handlers
func (r *HandlerRegistry) HandlersFor(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	out = append(out, typed...)
	return append(out, r.wildcard...)
}

// Len returns the number of distinct registered handlers
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{})
	for _, h := range r.wildcard {
		seen[h] = struct{}{}
	}
	for _, hs := range r.byType {
		for _, h := range hs {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
