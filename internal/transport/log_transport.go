package transport

import (
	"context"
	"github.com/RezaEskandarii/remindfire/types"
	"log"
)

// LogTransport prints notifications instead of sending them. Used for local runs without VAPID keys.
type LogTransport struct{}

func (LogTransport) Send(ctx context.Context, destination types.Destination, payload types.Payload) error {
	log.Printf("push to %s: %s | %s (%s)", destination.Endpoint, payload.Title, payload.Body, payload.URL)
	return nil
}
