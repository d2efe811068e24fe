package store

import (
	"context"
	"github.com/RezaEskandarii/remindfire/types"
)

// SubscriptionStore is the registry of known push subscriptions, keyed by endpoint.
type SubscriptionStore interface {
	Add(ctx context.Context, destination types.Destination) error
	List(ctx context.Context) ([]types.Destination, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
