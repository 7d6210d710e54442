// Package messaging implements the in-process event bus used to decouple
// command handlers from side effects like cache invalidation.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
)

// ErrEventBusClosed is returned when operating on a closed bus.
var ErrEventBusClosed = errors.New("messaging: event bus is closed")

// InMemoryEventBus is a simple in-memory implementation of shared.EventBus.
// Suitable for single-instance deployments and testing.
type InMemoryEventBus struct {
	mu         sync.RWMutex
	handlers   map[shared.EventType][]shared.EventHandler
	asyncMode  bool
	workerPool chan struct{}
	logger     *logger.Logger
	metrics    *Metrics
	timeout    time.Duration
	closed     bool
	wg         sync.WaitGroup
}

// Config contains configuration for InMemoryEventBus.
type Config struct {
	// AsyncMode runs handlers on a bounded worker pool instead of inline.
	AsyncMode bool

	// WorkerPoolSize bounds concurrent handlers in async mode.
	WorkerPoolSize int

	// HandlerTimeout bounds a single handler invocation in async mode.
	HandlerTimeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AsyncMode:      true,
		WorkerPoolSize: 10,
		HandlerTimeout: 30 * time.Second,
	}
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(cfg Config) *InMemoryEventBus {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 10
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 30 * time.Second
	}

	return &InMemoryEventBus{
		handlers:   make(map[shared.EventType][]shared.EventHandler),
		asyncMode:  cfg.AsyncMode,
		workerPool: make(chan struct{}, cfg.WorkerPoolSize),
		logger:     cfg.Logger.With(logger.Component("eventbus")),
		metrics:    &Metrics{},
		timeout:    cfg.HandlerTimeout,
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish delivers an event to all handlers subscribed to its type. In async
// mode delivery is fire-and-forget; handler errors are logged, never
// propagated to the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	handlers := make([]shared.EventHandler, len(b.handlers[event.EventType()]))
	copy(handlers, b.handlers[event.EventType()])
	b.mu.RUnlock()

	b.metrics.published.Add(1)

	for _, h := range handlers {
		if b.asyncMode {
			b.dispatchAsync(h, event)
			continue
		}
		if err := b.invoke(ctx, h, event); err != nil {
			return fmt.Errorf("handler failed for %s: %w", event.EventType(), err)
		}
	}

	return nil
}

func (b *InMemoryEventBus) dispatchAsync(h shared.EventHandler, event shared.Event) {
	b.wg.Add(1)
	b.workerPool <- struct{}{}

	go func() {
		defer b.wg.Done()
		defer func() { <-b.workerPool }()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := b.invoke(ctx, h, event); err != nil {
			b.metrics.failed.Add(1)
			b.logger.Error("event handler failed",
				logger.String("event_type", string(event.EventType())),
				logger.Err(err),
			)
		}
	}()
}

func (b *InMemoryEventBus) invoke(ctx context.Context, h shared.EventHandler, event shared.Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panicked: %v", p)
		}
	}()

	err = h.Handle(ctx, event)
	if err == nil {
		b.metrics.handled.Add(1)
	}
	return err
}

// Close stops accepting events and waits for in-flight handlers.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// MetricsSnapshot returns delivery counters.
func (b *InMemoryEventBus) MetricsSnapshot() (published, handled, failed int64) {
	return b.metrics.published.Load(), b.metrics.handled.Load(), b.metrics.failed.Load()
}

// Metrics holds delivery counters for the bus.
type Metrics struct {
	published atomic.Int64
	handled   atomic.Int64
	failed    atomic.Int64
}
