package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

const defaultBaseURL = "https://api.scryfall.com"

// ScryfallClient fetches the card-name catalog from the Scryfall API. Calls
// run through a circuit breaker so a misbehaving upstream fails fast instead
// of stalling every cache miss.
type ScryfallClient struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
}

type cardNamesResponse struct {
	Data []string `json:"data"`
}

func NewScryfallClient(baseURL string) *ScryfallClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "scryfall",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &ScryfallClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2),
		breaker: breaker,
	}
}

// FetchCardNames retrieves every known card name from the catalog endpoint.
func (c *ScryfallClient) FetchCardNames(ctx context.Context) ([]string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var body cardNamesResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetResult(&body).
			Get("/catalog/card-names")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch card names: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("card names request returned %s", resp.Status())
		}
		return body.Data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]string), nil
}
