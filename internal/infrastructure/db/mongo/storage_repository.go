package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hexcorp/hive-ai/internal/core/domain"
)

const collectionStorage = "storage"

type StorageRepository struct {
	col *mongo.Collection
}

func NewStorageRepository(db *mongo.Database) *StorageRepository {
	return &StorageRepository{col: db.Collection(collectionStorage)}
}

// Insert persists a new storage row.
func (r *StorageRepository) Insert(ctx context.Context, stored *domain.StoredDrone) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, stored)
	return err
}

// FindByTargetID retrieves the record storing the given drone, if any.
func (r *StorageRepository) FindByTargetID(ctx context.Context, targetID string) (*domain.StoredDrone, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stored domain.StoredDrone
	err := r.col.FindOne(ctx, bson.M{"target_id": targetID}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStoredDroneNotFound
		}
		return nil, err
	}
	return &stored, nil
}

// FindAll returns every storage row in store order.
func (r *StorageRepository) FindAll(ctx context.Context) ([]*domain.StoredDrone, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stored []*domain.StoredDrone
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Delete removes the storage row by id.
func (r *StorageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates necessary indexes on the storage collection.
func (r *StorageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "target_id", Value: 1}}},
		{Keys: bson.D{{Key: "release_time", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
