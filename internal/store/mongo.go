package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arvind/media-vault/backend/internal/models"
)

// MongoStore handles media metadata documents in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("media")}
}

func (s *MongoStore) Insert(ctx context.Context, obj *models.MediaObject) error {
	obj.CreatedAt = time.Now()
	if _, err := s.col.InsertOne(ctx, obj); err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (s *MongoStore) ListByOwner(ctx context.Context, ownerID string) ([]models.MediaObject, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var objs []models.MediaObject
	if err := cur.All(ctx, &objs); err != nil {
		return nil, err
	}
	return objs, nil
}

// GetByOwnerAndName resolves a file name inside the owner's namespace.
// Returns (nil, nil) when the owner has no object with that name.
func (s *MongoStore) GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (*models.MediaObject, error) {
	var obj models.MediaObject
	err := s.col.FindOne(ctx, bson.M{"user_id": ownerID, "file_name": fileName}).Decode(&obj)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

func (s *MongoStore) DeleteByOwnerAndName(ctx context.Context, ownerID, fileName string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"user_id": ownerID, "file_name": fileName})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongo delete: %s/%s not found", ownerID, fileName)
	}
	return nil
}
