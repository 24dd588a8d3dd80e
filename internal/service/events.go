package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/pkg/jobs"
)

// EventPublisher receives fire-and-forget notifications.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

type queuedEvent struct {
	Topic   string
	Payload interface{}
}

// AsyncPublisher hands events to a worker queue so publishing never blocks the
// request path. Events are dropped when the buffer is full.
type AsyncPublisher struct {
	next   EventPublisher
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAsyncPublisher wraps next with a bounded worker queue.
func NewAsyncPublisher(next EventPublisher, cfg jobs.QueueConfig) *AsyncPublisher {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	p := &AsyncPublisher{next: next, logger: cfg.Logger}
	p.queue = jobs.NewQueue("events", p.handle, cfg)
	return p
}

// Start launches the queue workers.
func (p *AsyncPublisher) Start(ctx context.Context) { p.queue.Start(ctx) }

// Stop drains workers.
func (p *AsyncPublisher) Stop() { p.queue.Stop() }

// Stats reports delivery counters of the underlying queue.
func (p *AsyncPublisher) Stats() jobs.Stats { return p.queue.Stats() }

// Publish enqueues the event without waiting.
func (p *AsyncPublisher) Publish(_ context.Context, topic string, payload interface{}) error {
	job := jobs.Job{ID: uuid.NewString(), Type: topic, Payload: queuedEvent{Topic: topic, Payload: payload}}
	if !p.queue.TryEnqueue(job) {
		p.logger.Warn("event dropped", zap.String("queue", p.queue.Name()), zap.String("topic", topic))
	}
	return nil
}

func (p *AsyncPublisher) handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(queuedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", job.Payload)
	}
	return p.next.Publish(ctx, event.Topic, event.Payload)
}
