package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is a registered external retailer whose catalog workers can query.
type Store struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Homepage      string             `bson:"homepage,omitempty" json:"homepage,omitempty"`
	SearchURL     string             `bson:"search_url,omitempty" json:"search_url,omitempty"`
	FetchStrategy string             `bson:"fetch_strategy" json:"fetch_strategy"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
