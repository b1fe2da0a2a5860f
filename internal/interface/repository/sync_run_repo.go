package repository

import (
	"context"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSyncRunRepository implements the SyncRunRepository interface
type MongoSyncRunRepository struct {
	collection *mongo.Collection
}

// NewMongoSyncRunRepository creates a new MongoDB sync-run repository
func NewMongoSyncRunRepository(db *mongo.Database) repository.SyncRunRepository {
	collection := db.Collection("syncRuns")

	// Create indexes for better performance
	ctx := context.Background()

	propertyStartedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "propertyId", Value: 1},
			{Key: "startedAt", Value: -1},
		},
	}

	feedIndex := mongo.IndexModel{
		Keys: bson.M{"feedId": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		propertyStartedIndex,
		feedIndex,
	})

	return &MongoSyncRunRepository{
		collection: collection,
	}
}

// Record appends one sync attempt document
func (r *MongoSyncRunRepository) Record(ctx context.Context, run *entity.SyncRun) error {
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

// ListRecent returns the most recent sync attempts for a property,
// newest first
func (r *MongoSyncRunRepository) ListRecent(ctx context.Context, propertyID string, limit int) ([]*entity.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"propertyId": propertyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []*entity.SyncRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
