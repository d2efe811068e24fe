package mongo

import (
	"context"
	"fmt"
	"github.com/RezaEskandarii/remindfire/types"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
)

type MongoCompletionTracker struct {
	collection *mongodrv.Collection
}

func NewMongoCompletionTracker(db *mongodrv.Database) *MongoCompletionTracker {
	return &MongoCompletionTracker{collection: db.Collection(completionsCollection)}
}

func markerID(marker types.CompletionMarker) string {
	return marker.DayKey + "|" + marker.Member()
}

func (t *MongoCompletionTracker) MarkDone(ctx context.Context, marker types.CompletionMarker) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"day_key":    marker.DayKey,
			"endpoint":   marker.Endpoint,
			"subject_id": marker.SubjectID,
			"created_at": time.Now(),
		},
	}
	_, err := t.collection.UpdateOne(ctx, bson.M{"_id": markerID(marker)}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to mark done: %w", err)
	}
	return nil
}

func (t *MongoCompletionTracker) IsDone(ctx context.Context, marker types.CompletionMarker) (bool, error) {
	n, err := t.collection.CountDocuments(ctx, bson.M{"_id": markerID(marker)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return n > 0, nil
}

func (t *MongoCompletionTracker) Close() error { return nil }
