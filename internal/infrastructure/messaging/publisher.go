// Package messaging carries webinar events over RabbitMQ.
package messaging

import (
	"context"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
)

// jsonPublisher is the subset of helpers.RabbitPublisher used here.
type jsonPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// EventPublisher sends webinar events to the configured queue.
type EventPublisher struct {
	pub jsonPublisher
}

func NewEventPublisher(pub *helpers.RabbitPublisher) *EventPublisher {
	return &EventPublisher{pub: pub}
}

func (p *EventPublisher) Publish(ctx context.Context, ev repository.WebinarEvent) error {
	return p.pub.PublishJSON(ctx, ev.Type, ev)
}

var _ repository.EventPublisher = (*EventPublisher)(nil)
