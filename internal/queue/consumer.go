package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"wotro-backend/internal/logger"
)

// Handler processes one delivery. A nil error acks it; an error rejects it
// without requeue.
type Handler func(ctx context.Context, routingKey string, body []byte) error

type Consumer struct {
	queue   string
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewConsumer declares a durable queue bound to every booking.* event.
func NewConsumer(url, exchange, queue string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, bindingBookingAll, exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	if err := ch.Qos(10, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}

	return &Consumer{queue: q.Name, conn: conn, channel: ch}, nil
}

// Run consumes until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // manual ack after processing
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}
	logger.Info("Consuming events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			if err := handle(ctx, d.RoutingKey, d.Body); err != nil {
				logger.Error("Event handling failed", "routing_key", d.RoutingKey, "error", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
