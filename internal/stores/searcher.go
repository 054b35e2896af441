// Package stores is the boundary to external store catalogs. Real scraping
// strategies live behind the Searcher interface; this package ships only a
// generic JSON storefront client.
package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
)

// Searcher queries one store's catalog for listings of a card.
type Searcher interface {
	Search(ctx context.Context, store *domain.Store, cardName string) ([]domain.Listing, error)
}

// JSONStorefrontClient queries storefronts that expose a JSON search
// endpoint. The store's SearchURL is expected to accept the card name as a
// `q` query parameter and return a `listings` array.
type JSONStorefrontClient struct {
	client *resty.Client
}

type searchResponse struct {
	Listings []domain.Listing `json:"listings"`
}

func NewJSONStorefrontClient() *JSONStorefrontClient {
	return &JSONStorefrontClient{
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(1),
	}
}

func (c *JSONStorefrontClient) Search(ctx context.Context, store *domain.Store, cardName string) ([]domain.Listing, error) {
	if store.SearchURL == "" {
		return nil, fmt.Errorf("store %s has no search URL configured", store.Slug)
	}

	var body searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", cardName).
		SetResult(&body).
		Get(store.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", store.Slug, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search at %s returned %s", store.Slug, resp.Status())
	}

	return body.Listings, nil
}
