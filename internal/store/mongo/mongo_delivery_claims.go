package mongo

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"time"
)

type MongoDeliveryClaims struct {
	collection *mongodrv.Collection
}

func NewMongoDeliveryClaims(db *mongodrv.Database) *MongoDeliveryClaims {
	return &MongoDeliveryClaims{collection: db.Collection(claimsCollection)}
}

func (c *MongoDeliveryClaims) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	_, err := c.collection.InsertOne(ctx, bson.M{"_id": key, "expires_at": now.Add(ttl)})
	if err == nil {
		return true, nil
	}
	if !mongodrv.IsDuplicateKeyError(err) {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}

	// the TTL monitor runs once a minute, so an expired claim may still be present
	res, err := c.collection.UpdateOne(ctx,
		bson.M{"_id": key, "expires_at": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"expires_at": now.Add(ttl)}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (c *MongoDeliveryClaims) Close() error { return nil }
