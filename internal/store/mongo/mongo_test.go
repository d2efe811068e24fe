package mongo

import (
	"context"
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/internal/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

var dbCounter atomic.Int64

// setupMongo starts one container per test function. The test is skipped when Docker is not usable.
func setupMongo(t *testing.T) *mongodrv.Client {
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	if os.Getenv("CI") == "true" {
		t.Skip("skipping Docker-based tests in CI environment")
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Skipf("failed to start MongoDB container (Docker may not be available): %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Skipf("failed to get MongoDB connection string: %v", err)
	}

	client, _, err := Connect(ctx, uri, "remindfire_test")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Skipf("failed to connect to MongoDB: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
		_ = container.Terminate(ctx)
	})
	return client
}

func freshDatabase(t *testing.T, client *mongodrv.Client) *mongodrv.Database {
	db := client.Database(fmt.Sprintf("remindfire_test_%d", dbCounter.Add(1)))
	require.NoError(t, EnsureIndexes(context.Background(), db))
	return db
}

func TestMongoStores(t *testing.T) {
	client := setupMongo(t)

	t.Run("JobStore", func(t *testing.T) {
		storetest.RunJobStoreTests(t, func(t *testing.T) store.JobStore {
			return NewMongoJobStore(freshDatabase(t, client))
		})
	})
	t.Run("CompletionTracker", func(t *testing.T) {
		storetest.RunCompletionTrackerTests(t, func(t *testing.T) store.CompletionTracker {
			return NewMongoCompletionTracker(freshDatabase(t, client))
		})
	})
	t.Run("DeliveryClaims", func(t *testing.T) {
		storetest.RunDeliveryClaimsTests(t, func(t *testing.T) store.DeliveryClaims {
			return NewMongoDeliveryClaims(freshDatabase(t, client))
		})
	})
	t.Run("SubscriptionStore", func(t *testing.T) {
		storetest.RunSubscriptionStoreTests(t, func(t *testing.T) store.SubscriptionStore {
			return NewMongoSubscriptionStore(freshDatabase(t, client))
		})
	})
}
