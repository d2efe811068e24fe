package message_broaker

import "context"

// MessageBroker buffers submitted reminder jobs before they are written to the job store.
type MessageBroker interface {
	Publish(ctx context.Context, queue string, message []byte) error
	// Consume delivers messages unacknowledged. The consumer calls Ack or Nack on each one.
	Consume(ctx context.Context, queue string) (<-chan Delivery, error)
	Close() error
}

// Delivery is one consumed message.
type Delivery struct {
	Body []byte
	ack  func() error
	nack func(requeue bool) error
}

// NewDelivery wraps body with its settlement callbacks. Nil callbacks are no-ops.
func NewDelivery(body []byte, ack func() error, nack func(requeue bool) error) Delivery {
	return Delivery{Body: body, ack: ack, nack: nack}
}

func (d Delivery) Ack() error {
	if d.ack == nil {
		return nil
	}
	return d.ack()
}

// Nack hands the message back to the broker, or discards it when requeue is false.
func (d Delivery) Nack(requeue bool) error {
	if d.nack == nil {
		return nil
	}
	return d.nack(requeue)
}
