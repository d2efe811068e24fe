package message_broaker

import (
	"context"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"log"
)

type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	exchange   string
	routingKey string
}

// NewRabbitMQ declares a durable direct exchange and queue and binds them.
// An empty routingKey binds with the queue name.
func NewRabbitMQ(url, exchange, queue, routingKey string) (*RabbitMQ, error) {
	if routingKey == "" {
		routingKey = queue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, exchange, queue, routingKey); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		queueName:  queue,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

func declareTopology(ch *amqp.Channel, exchange, queue, routingKey string) error {
	if exchange != "" {
		if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange: %w", err)
		}
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if exchange != "" {
		if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue: %w", err)
		}
	}
	return nil
}

// Publish sends a persistent message. With no exchange configured the default exchange routes by queue name.
func (r *RabbitMQ) Publish(ctx context.Context, queue string, message []byte) error {
	routingKey := r.routingKey
	if r.exchange == "" {
		routingKey = queue
	}
	return r.channel.PublishWithContext(
		ctx,
		r.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         message,
		},
	)
}

// Consume leaves settlement to the caller. Messages still unacked when the channel closes are redelivered.
func (r *RabbitMQ) Consume(ctx context.Context, queue string) (<-chan Delivery, error) {
	msgs, err := r.channel.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}

	out := make(chan Delivery, 1000)

	go func() {
		defer close(out)

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				delivery := NewDelivery(msg.Body,
					func() error { return msg.Ack(false) },
					func(requeue bool) error { return msg.Nack(false, requeue) },
				)
				select {
				case out <- delivery:
				case <-ctx.Done():
					if err := msg.Nack(false, true); err != nil {
						log.Printf("failed to requeue message: %v", err)
					}
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}
