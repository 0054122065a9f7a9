package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/gensyn/internal/logging"
	"github.com/aretw0/gensyn/pkg/domain"
)

// StreamManager fans graph lifecycle events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber, dropping it for slow clients.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "payload_size", len(msg))
		}
	}
}

func (sm *StreamManager) publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Warn("SSE: event encode failed", "err", err)
		return
	}
	sm.Broadcast(string(data))
}

// Hooks returns lifecycle hooks that broadcast graph mutations.
// Evaluations are not streamed.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGateAdd:    func(_ context.Context, e *domain.GateEvent) { sm.publish(e) },
		OnGateRemove: func(_ context.Context, e *domain.GateEvent) { sm.publish(e) },
		OnConnect:    func(_ context.Context, e *domain.ConnectionEvent) { sm.publish(e) },
		OnDisconnect: func(_ context.Context, e *domain.ConnectionEvent) { sm.publish(e) },
		OnLoadState:  func(_ context.Context, e *domain.StateEvent) { sm.publish(e) },
	}
}
