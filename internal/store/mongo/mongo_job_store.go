package mongo

import (
	"context"
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
)

type jobDocument struct {
	Token     string    `bson:"token"`
	FireAt    int64     `bson:"fire_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func bsonD(kv ...any) bson.D {
	d := bson.D{}
	for i := 0; i+1 < len(kv); i += 2 {
		d = append(d, bson.E{Key: kv[i].(string), Value: kv[i+1]})
	}
	return d
}

type MongoJobStore struct {
	collection *mongodrv.Collection
}

func NewMongoJobStore(db *mongodrv.Database) *MongoJobStore {
	return &MongoJobStore{collection: db.Collection(jobsCollection)}
}

func (s *MongoJobStore) Enqueue(ctx context.Context, token string, fireAt int64) error {
	if _, err := s.collection.InsertOne(ctx, jobDocument{Token: token, FireAt: fireAt, CreatedAt: time.Now()}); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (s *MongoJobStore) BulkEnqueue(ctx context.Context, batch []store.EncodedJob) error {
	if len(batch) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]any, 0, len(batch))
	for _, job := range batch {
		docs = append(docs, jobDocument{Token: job.Token, FireAt: job.FireAt, CreatedAt: now})
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to bulk enqueue jobs: %w", err)
	}
	return nil
}

func (s *MongoJobStore) DueAsOf(ctx context.Context, ts int64) ([]string, error) {
	opts := options.Find().
		SetSort(bsonD("fire_at", 1, "_id", 1)).
		SetProjection(bson.M{"token": 1, "fire_at": 1})

	cursor, err := s.collection.Find(ctx, bson.M{"fire_at": bson.M{"$lte": ts}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []string
	for cursor.Next(ctx) {
		var doc jobDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode due job: %w", err)
		}
		tokens = append(tokens, doc.Token)
	}
	return tokens, cursor.Err()
}

func (s *MongoJobStore) Remove(ctx context.Context, token string) (bool, error) {
	res, err := s.collection.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return false, fmt.Errorf("failed to remove job: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoJobStore) Count(ctx context.Context) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// Close is a no-op; the client is disconnected by its owner.
func (s *MongoJobStore) Close() error { return nil }
