package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CardRepository struct {
	collection *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *CardRepository {
	return &CardRepository{
		collection: db.Collection("tracked_cards"),
	}
}

func (r *CardRepository) Add(ctx context.Context, card *domain.TrackedCard) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if card.ID.IsZero() {
		card.ID = primitive.NewObjectID()
	}
	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, card)
	if err != nil {
		return fmt.Errorf("failed to add tracked card: %w", err)
	}

	return nil
}

func (r *CardRepository) GetByUser(ctx context.Context, username string) ([]domain.TrackedCard, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"username": username},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked cards: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []domain.TrackedCard
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode tracked cards: %w", err)
	}

	return cards, nil
}

func (r *CardRepository) Update(ctx context.Context, username, cardName string, update domain.TrackedCard) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"username": username, "card_name": cardName}
	set := bson.M{
		"amount":     update.Amount,
		"updated_at": time.Now(),
	}
	if update.CardName != "" {
		set["card_name"] = update.CardName
	}
	if update.Specifications != nil {
		set["specifications"] = update.Specifications
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update tracked card: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("tracked card not found")
	}

	return nil
}

func (r *CardRepository) Delete(ctx context.Context, username, cardName string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"username": username, "card_name": cardName})
	if err != nil {
		return fmt.Errorf("failed to delete tracked card: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("tracked card not found")
	}

	return nil
}

func (r *CardRepository) GetTrackingUsers(ctx context.Context, cardNames []string) (map[string][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"card_name": bson.M{"$in": cardNames}})
	if err != nil {
		return nil, fmt.Errorf("failed to find tracking users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make(map[string][]string)
	for cursor.Next(ctx) {
		var card domain.TrackedCard
		if err := cursor.Decode(&card); err != nil {
			return nil, fmt.Errorf("failed to decode tracked card: %w", err)
		}
		users[card.CardName] = append(users[card.CardName], card.Username)
	}

	return users, nil
}
