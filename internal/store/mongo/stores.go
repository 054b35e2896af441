package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoreRepository struct {
	stores     *mongo.Collection
	userStores *mongo.Collection
}

type userStoreSelection struct {
	Username string   `bson:"username"`
	Slugs    []string `bson:"slugs"`
}

func NewStoreRepository(db *mongo.Database) *StoreRepository {
	return &StoreRepository{
		stores:     db.Collection("stores"),
		userStores: db.Collection("user_stores"),
	}
}

func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var store domain.Store
	err := r.stores.FindOne(ctx, bson.M{"slug": slug}).Decode(&store)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("store not found")
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return &store, nil
}

func (r *StoreRepository) List(ctx context.Context) ([]domain.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.stores.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []domain.Store
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, fmt.Errorf("failed to decode stores: %w", err)
	}

	return stores, nil
}

func (r *StoreRepository) GetUserStores(ctx context.Context, username string) ([]domain.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var selection userStoreSelection
	err := r.userStores.FindOne(ctx, bson.M{"username": username}).Decode(&selection)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user store selection: %w", err)
	}

	if len(selection.Slugs) == 0 {
		return nil, nil
	}

	cursor, err := r.stores.Find(ctx, bson.M{"slug": bson.M{"$in": selection.Slugs}})
	if err != nil {
		return nil, fmt.Errorf("failed to list user stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []domain.Store
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, fmt.Errorf("failed to decode user stores: %w", err)
	}

	return stores, nil
}

func (r *StoreRepository) SetUserStores(ctx context.Context, username string, slugs []string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.userStores.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"username": username, "slugs": slugs}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set user store selection: %w", err)
	}

	return nil
}
