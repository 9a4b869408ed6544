package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
)

// EventHandler processes one decoded webinar event.
type EventHandler func(ctx context.Context, ev repository.WebinarEvent) error

// Verdict is what to do with a delivery after handling it.
type Verdict int

const (
	Ack Verdict = iota
	Drop
	Retry
)

// Consumer drains the webinar event queue.
type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	handler  EventHandler
	logger   *logrus.Logger
	timeout  time.Duration
	prefetch int
}

func NewConsumer(url, queue string, prefetch int, handler EventHandler, logger *logrus.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if prefetch <= 0 {
		prefetch = 16
	}
	// prefetch for fair dispatch across workers
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}
	if err := helpers.DeclareDurableQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	return &Consumer{
		conn:     conn,
		ch:       ch,
		queue:    queue,
		handler:  handler,
		logger:   logger,
		timeout:  15 * time.Second,
		prefetch: prefetch,
	}, nil
}

// Run consumes until ctx is canceled or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			switch c.Handle(ctx, msg.Body) {
			case Ack:
				_ = msg.Ack(false)
			case Drop:
				_ = msg.Nack(false, false)
			case Retry:
				_ = msg.Nack(false, true)
			}
		}
	}
}

// Handle decodes body and runs the handler. Undecodable messages are dropped,
// handler failures are retried.
func (c *Consumer) Handle(ctx context.Context, body []byte) Verdict {
	var ev repository.WebinarEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.WebinarID == "" {
		if c.logger != nil {
			c.logger.WithError(err).Warn("bad webinar event")
		}
		return Drop
	}
	hctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.handler(hctx, ev); err != nil {
		if c.logger != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"event":      ev.Type,
				"webinar_id": ev.WebinarID,
			}).Warn("handle webinar event failed")
		}
		return Retry
	}
	return Ack
}

func (c *Consumer) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
