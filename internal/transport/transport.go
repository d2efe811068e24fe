// Package transport delivers notification payloads to push destinations.
package transport

import (
	"context"
	"errors"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/types"
	"time"
)

// Transport performs one best-effort delivery attempt.
type Transport interface {
	Send(ctx context.Context, destination types.Destination, payload types.Payload) error
}

// ErrSubscriptionGone is returned when the push service reports the subscription no longer exists.
var ErrSubscriptionGone = fmt.Errorf("%w: subscription gone", custom_errors.ErrTransport)

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, destination types.Destination, payload types.Payload) error

func (f TransportFunc) Send(ctx context.Context, destination types.Destination, payload types.Payload) error {
	return f(ctx, destination, payload)
}

type timeoutTransport struct {
	next    Transport
	timeout time.Duration
}

// WithTimeout bounds every Send by timeout and makes every failure match custom_errors.ErrTransport.
func WithTimeout(next Transport, timeout time.Duration) Transport {
	return &timeoutTransport{next: next, timeout: timeout}
}

func (t *timeoutTransport) Send(ctx context.Context, destination types.Destination, payload types.Payload) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	err := t.next.Send(ctx, destination, payload)
	if err == nil {
		return nil
	}
	if errors.Is(err, custom_errors.ErrTransport) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: send timed out after %s: %v", custom_errors.ErrTransport, t.timeout, err)
	}
	return fmt.Errorf("%w: %v", custom_errors.ErrTransport, err)
}
