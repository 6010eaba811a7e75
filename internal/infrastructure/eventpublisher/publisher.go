package eventpublisher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/feefines/internal/domain"
)

// Sink delivers events to an external system.
type Sink interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Recorder receives delivery outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	EventPublished(eventType string)
	EventPublishFailed(eventType string)
	EventDropped()
}

// Config for Dispatcher.
type Config struct {
	Sink           Sink
	Recorder       Recorder
	Logger         zerolog.Logger
	BufferSize     int           // Events held before Publish starts dropping
	PublishTimeout time.Duration // Per-event deadline handed to the sink
	DrainTimeout   time.Duration // How long Run keeps delivering after cancellation
}

// Dispatcher implements usecase.EventPublisher. Publish queues the event and
// returns; a worker started with Run hands queued events to the sink.
// Notifications are best effort: a full queue or a failing sink loses the
// event and never fails the committed action.
type Dispatcher struct {
	sink           Sink
	recorder       Recorder
	logger         zerolog.Logger
	queue          chan *domain.Event
	publishTimeout time.Duration
	drainTimeout   time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 10 * time.Second
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}

	return &Dispatcher{
		sink:           cfg.Sink,
		recorder:       cfg.Recorder,
		logger:         cfg.Logger.With().Str("component", "event_dispatcher").Logger(),
		queue:          make(chan *domain.Event, cfg.BufferSize),
		publishTimeout: cfg.PublishTimeout,
		drainTimeout:   cfg.DrainTimeout,
	}
}

// Publish queues an event for delivery. It never blocks.
func (d *Dispatcher) Publish(_ context.Context, event *domain.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher stopped")
		return nil
	}

	select {
	case d.queue <- event:
	default:
		d.drop(event, "queue full")
	}
	return nil
}

// Run delivers queued events until ctx is cancelled, then drains what is
// left within the drain timeout. It returns ctx.Err().
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info().Int("buffer", cap(d.queue)).Msg("event dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info().Msg("event dispatcher stopped")
			return ctx.Err()
		case event := <-d.queue:
			d.deliver(context.Background(), event)
		}
	}
}

func (d *Dispatcher) drain() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()

	for {
		select {
		case event := <-d.queue:
			if ctx.Err() != nil {
				d.drop(event, "drain timeout")
				continue
			}
			d.deliver(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(parent context.Context, event *domain.Event) {
	ctx, cancel := context.WithTimeout(parent, d.publishTimeout)
	defer cancel()

	if err := d.sink.Publish(ctx, event); err != nil {
		d.recorder.EventPublishFailed(event.EventType)
		d.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Str("aggregate_id", event.AggregateID).
			Msg("failed to publish event")
		return
	}

	d.recorder.EventPublished(event.EventType)
	d.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Msg("event published")
}

func (d *Dispatcher) drop(event *domain.Event, reason string) {
	d.recorder.EventDropped()
	d.logger.Warn().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("reason", reason).
		Msg("event dropped")
}

type nopRecorder struct{}

func (nopRecorder) EventPublished(string)     {}
func (nopRecorder) EventPublishFailed(string) {}
func (nopRecorder) EventDropped()             {}

// LogPublisher is a sink that writes events to the log. It stands in for
// the broker when none is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
