package mocks

import (
	"context"
	"github.com/RezaEskandarii/remindfire/types"
	"sync"
)

// SentNotification is one call recorded by MockTransport.
type SentNotification struct {
	Destination types.Destination
	Payload     types.Payload
}

// MockTransport is a mock implementation of transport.Transport that records every send.
type MockTransport struct {
	SendFunc func(ctx context.Context, destination types.Destination, payload types.Payload) error

	mu   sync.Mutex
	sent []SentNotification
}

func (m *MockTransport) Send(ctx context.Context, destination types.Destination, payload types.Payload) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentNotification{Destination: destination, Payload: payload})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, destination, payload)
	}
	return nil
}

func (m *MockTransport) Sent() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentNotification(nil), m.sent...)
}
