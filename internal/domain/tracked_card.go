package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackedCard is an entry on a user's wish list. Specifications narrow which
// printings the user cares about; an empty slice means any printing.
type TrackedCard struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	CardName       string             `bson:"card_name" json:"card_name"`
	Amount         int                `bson:"amount" json:"amount"`
	Specifications []CardRequestSpec  `bson:"specifications,omitempty" json:"specifications,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
