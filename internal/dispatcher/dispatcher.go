package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is a mutation request addressed to a named service.
type Event struct {
	Service   string
	Payload   any
	Timestamp time.Time

	// Done, if set, receives the handler result. For buffered services it is
	// called from the service's worker goroutine.
	Done func(result any, err error)
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes events to registered handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	rejected  metric.Int64Counter
	dropped   metric.Int64Counter

	mu      sync.RWMutex
	buffers map[string]chan Event
	closed  bool
	wg      sync.WaitGroup
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		buffers:  make(map[string]chan Event),
		logger:   logger,
	}

	m := meter()

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of mutation requests in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for svc, buf := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(len(buf)),
					metric.WithAttributes(attribute.String("service", svc)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.requests.processed",
		metric.WithDescription("Total mutation requests processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.rejected, err = m.Int64Counter(
		"dispatcher.requests.rejected",
		metric.WithDescription("Total mutation requests refused by their handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.requests.dropped",
		metric.WithDescription("Total mutation requests dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given service with optional configuration.
func (d *Dispatcher) Register(service string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.logged {
		handler = d.withLogging(service, handler)
	}

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(service, cfg.bufferSize, cfg.blocking, handler)
	} else {
		handler = withCompletion(handler)
	}

	d.handlers[service] = handler
}

// Dispatch routes an event to its registered handler. Buffered services
// return "queued" immediately; the real result goes to Event.Done.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Service]
	if !ok {
		return nil, fmt.Errorf("unknown service: %s", e.Service)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return h(e)
}

// HasHandler returns true if a handler is registered for the service.
func (d *Dispatcher) HasHandler(service string) bool {
	_, ok := d.handlers[service]
	return ok
}

// Close stops accepting buffered events and waits for queued ones to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, buf := range d.buffers {
		close(buf)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func withCompletion(h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		result, err := h(e)
		if e.Done != nil {
			e.Done(result, err)
		}
		return result, err
	}
}

func (d *Dispatcher) withBuffer(service string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := make(chan Event, size)

	d.mu.Lock()
	d.buffers[service] = buffer
	d.mu.Unlock()

	svcAttr := attribute.String("service", service)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for e := range buffer {
			result, err := h(e)
			if err != nil {
				d.rejected.Add(context.Background(), 1, metric.WithAttributes(svcAttr))
			}
			d.processed.Add(context.Background(), 1, metric.WithAttributes(svcAttr))
			if e.Done != nil {
				e.Done(result, err)
			}
		}
	}()

	// the read lock is held across the send so Close cannot close the
	// channel underneath a blocked sender
	return func(e Event) (any, error) {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			return nil, fmt.Errorf("dispatcher closed: %s", service)
		}

		if blocking {
			buffer <- e
			return "queued", nil
		}

		select {
		case buffer <- e:
			return "queued", nil
		default:
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(svcAttr))
			return nil, fmt.Errorf("queue full: %s", service)
		}
	}
}

func (d *Dispatcher) withLogging(service string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling request", "service", service, "payload", fmt.Sprintf("%T", e.Payload))

		result, err := h(e)

		if err != nil {
			d.logger.Error("request failed", "service", service, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("request complete", "service", service, "duration", time.Since(start))
		}

		return result, err
	}
}
