package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/RezaEskandarii/remindfire/types"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log"
	"time"
)

type subscriptionDocument struct {
	Endpoint     string `bson:"_id"`
	Subscription string `bson:"subscription"`
}

type MongoSubscriptionStore struct {
	collection *mongodrv.Collection
}

func NewMongoSubscriptionStore(db *mongodrv.Database) *MongoSubscriptionStore {
	return &MongoSubscriptionStore{collection: db.Collection(subscriptionsCollection)}
}

func (s *MongoSubscriptionStore) Add(ctx context.Context, destination types.Destination) error {
	raw, err := json.Marshal(destination)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}
	update := bson.M{"$set": bson.M{"subscription": string(raw), "updated_at": time.Now()}}
	_, err = s.collection.UpdateOne(ctx, bson.M{"_id": destination.Endpoint}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add subscription: %w", err)
	}
	return nil
}

func (s *MongoSubscriptionStore) List(ctx context.Context) ([]types.Destination, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bsonD("_id", 1)))
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []types.Destination
	for cursor.Next(ctx) {
		var doc subscriptionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		var d types.Destination
		if err := json.Unmarshal([]byte(doc.Subscription), &d); err != nil {
			log.Printf("skipping unreadable subscription %s: %v", doc.Endpoint, err)
			continue
		}
		out = append(out, d)
	}
	return out, cursor.Err()
}

func (s *MongoSubscriptionStore) Count(ctx context.Context) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}

func (s *MongoSubscriptionStore) Close() error { return nil }
