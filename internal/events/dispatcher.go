// Package events delivers cart commit events (variant changed, quantity
// changed, line removed) to interested consumers without blocking the
// request path. Local optimistic state is updated first; consumers such as
// the analytics recorder run after the fact and must tolerate loss on
// shutdown.
package events

import (
	"context"
	"log/slog"
	"time"
)

// Event is a cart commit event payload. Concrete types live in the domain
// package (domain.VariantChangedEvent and friends).
type Event any

// Handler consumes one event. Handlers run sequentially on the dispatcher
// goroutine; slow work belongs in the handler's own goroutine.
type Handler func(ctx context.Context, ev Event)

// Config holds dispatcher configuration.
type Config struct {
	// BufferSize is the capacity of the event channel. Publishing to a full
	// buffer drops the event rather than blocking a request.
	BufferSize int

	// DrainTimeout bounds how long Stop waits for in-flight events.
	DrainTimeout time.Duration
}

// Dispatcher fans cart commit events out to registered handlers.
type Dispatcher struct {
	config   Config
	handlers []Handler
	ch       chan Event
	done     chan struct{}
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. Register handlers before Start.
func NewDispatcher(config Config, logger *slog.Logger) *Dispatcher {
	if config.BufferSize == 0 {
		config.BufferSize = 256
	}
	if config.DrainTimeout == 0 {
		config.DrainTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		config: config,
		ch:     make(chan Event, config.BufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Subscribe registers a handler for all events. Not safe to call after Start.
func (d *Dispatcher) Subscribe(h Handler) {
	d.handlers = append(d.handlers, h)
}

// Publish enqueues an event. Never blocks: when the buffer is full the event
// is dropped and counted in the log.
func (d *Dispatcher) Publish(ev Event) {
	select {
	case d.ch <- ev:
	default:
		d.logger.Warn("event buffer full, dropping event", "event", ev)
	}
}

// Start begins delivering events until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		for {
			select {
			case ev := <-d.ch:
				d.deliver(ctx, ev)
			case <-ctx.Done():
				d.drain()
				return
			}
		}
	}()
}

// Stop waits for the dispatcher goroutine to finish draining.
func (d *Dispatcher) Stop() {
	select {
	case <-d.done:
	case <-time.After(d.config.DrainTimeout):
		d.logger.Warn("event dispatcher drain timed out")
	}
}

func (d *Dispatcher) drain() {
	deadline := time.After(d.config.DrainTimeout)
	for {
		select {
		case ev := <-d.ch:
			d.deliver(context.Background(), ev)
		case <-deadline:
			return
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	for _, h := range d.handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("event handler panicked", "error", r, "event", ev)
				}
			}()
			h(ctx, ev)
		}()
	}
}
