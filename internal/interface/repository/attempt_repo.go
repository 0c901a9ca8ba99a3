package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/internal/domain/repository"
)

// MongoAttemptRepository implements AttemptRepository
type MongoAttemptRepository struct {
	collection *mongo.Collection
}

// NewMongoAttemptRepository creates a new extraction attempt repository
func NewMongoAttemptRepository(db *mongo.Database) repository.AttemptRepository {
	collection := db.Collection("extraction_attempts")

	// Index on uploadId for lookups from support tooling
	ctx := context.Background()
	uploadIndex := mongo.IndexModel{
		Keys: bson.M{"uploadId": 1},
	}
	collection.Indexes().CreateOne(ctx, uploadIndex)

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index(),
	}
	collection.Indexes().CreateOne(ctx, userIndex)

	return &MongoAttemptRepository{collection: collection}
}

// Archive stores one extraction attempt document.
func (r *MongoAttemptRepository) Archive(ctx context.Context, attempt *entity.ExtractionAttempt) error {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, attempt)
	return err
}
