// Package mongo implements the stores on MongoDB collections.
package mongo

import (
	"context"
	"fmt"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
)

const (
	jobsCollection          = "reminder_jobs"
	completionsCollection   = "reminder_completions"
	claimsCollection        = "delivery_claims"
	subscriptionsCollection = "push_subscriptions"
)

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, connectionString, databaseName string) (*mongodrv.Client, *mongodrv.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(databaseName), nil
}

// EnsureIndexes creates the indexes the stores rely on. It is safe to call repeatedly.
func EnsureIndexes(ctx context.Context, db *mongodrv.Database) error {
	_, err := db.Collection(jobsCollection).Indexes().CreateMany(ctx, []mongodrv.IndexModel{
		{Keys: bsonD("fire_at", 1, "_id", 1)},
		{Keys: bsonD("token", 1)},
	})
	if err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}

	_, err = db.Collection(claimsCollection).Indexes().CreateOne(ctx, mongodrv.IndexModel{
		Keys:    bsonD("expires_at", 1),
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create claim indexes: %w", err)
	}
	return nil
}
