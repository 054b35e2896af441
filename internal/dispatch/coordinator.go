// Package dispatch coordinates the availability-check pipeline: it publishes
// validated check requests on the command bus, consumes worker results,
// filters them against the original request, and hands the outcome to the
// notification layer.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/bus"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/cache"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/filter"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/metrics"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/notify"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/repo"
	"go.uber.org/zap"
)

// AvailabilityCacheTTL bounds how long filtered listings are served without a
// fresh check.
const AvailabilityCacheTTL = 30 * time.Minute

// AvailabilityCacheKey is the key filtered listings are cached under for one
// card at one store.
func AvailabilityCacheKey(storeSlug, cardName string) string {
	return fmt.Sprintf("availability:%s:%s", storeSlug, cardName)
}

// Coordinator owns the request side of the pipeline. Once a command is
// published the bus and the remote worker own their copy; the coordinator
// keeps only a pending entry so the returning result can be correlated by its
// request ID, falling back to payload field equality for results that carry
// none.
type Coordinator struct {
	bus       bus.Bus
	cache     cache.Cache
	notifier  notify.Notifier
	cardRepo  repo.CardRepository
	storeRepo repo.StoreRepository
	logger    *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]bus.AvailabilityRequestPayload
}

func NewCoordinator(
	b bus.Bus,
	c cache.Cache,
	notifier notify.Notifier,
	cardRepo repo.CardRepository,
	storeRepo repo.StoreRepository,
	logger *zap.SugaredLogger,
) *Coordinator {
	return &Coordinator{
		bus:       b,
		cache:     c,
		notifier:  notifier,
		cardRepo:  cardRepo,
		storeRepo: storeRepo,
		logger:    logger,
		pending:   make(map[string]bus.AvailabilityRequestPayload),
	}
}

// Start subscribes the coordinator to the worker-results channel. Results are
// consumed on the bus's subscription goroutine for the life of ctx.
func (c *Coordinator) Start(ctx context.Context) error {
	return c.bus.Subscribe(ctx, bus.ChannelWorkerResults, c.handleResult)
}

// RequestCheck validates and dispatches one availability check. When the
// availability cache already holds fresh listings for the card and store they
// are delivered immediately and nothing is published; otherwise a command is
// published and the returned request ID identifies the in-flight check.
func (c *Coordinator) RequestCheck(ctx context.Context, username, storeSlug string, spec domain.CardRequestSpec) (string, error) {
	payload := bus.AvailabilityRequestPayload{
		Username:  username,
		StoreSlug: storeSlug,
		CardData:  spec,
	}
	if err := bus.ValidatePayload(payload); err != nil {
		return "", err
	}

	var cached []domain.Listing
	err := cache.GetJSON(ctx, c.cache, AvailabilityCacheKey(storeSlug, spec.CardName), &cached)
	if err == nil {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		c.logger.Infow("availability served from cache", "username", username, "store", storeSlug, "card", spec.CardName)
		c.notifier.AvailabilityData(username, storeSlug, spec.CardName, filter.Listings(spec, cached))
		return "", nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warnw("availability cache read failed", "error", err)
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	cmd := bus.SchedulerCommand{
		Command:   bus.CommandAvailabilityRequest,
		RequestID: uuid.NewString(),
		Payload:   payload,
	}

	message, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("failed to marshal command: %w", err)
	}

	c.mu.Lock()
	c.pending[cmd.RequestID] = payload
	c.mu.Unlock()

	if err := c.bus.Publish(ctx, bus.ChannelSchedulerRequests, message); err != nil {
		c.mu.Lock()
		delete(c.pending, cmd.RequestID)
		c.mu.Unlock()
		return "", fmt.Errorf("failed to publish availability request: %w", err)
	}

	metrics.RequestsPublished.WithLabelValues(storeSlug).Inc()
	c.notifier.CheckStarted(username, storeSlug, spec.CardName)
	c.logger.Infow("availability request published",
		"request_id", cmd.RequestID, "username", username, "store", storeSlug, "card", spec.CardName)

	return cmd.RequestID, nil
}

// CheckUserCards fans an availability check out across every card on the
// user's list at every store the user selected. Cached cards are answered
// inline; the rest are published.
func (c *Coordinator) CheckUserCards(ctx context.Context, username string) (int, error) {
	userStores, err := c.storeRepo.GetUserStores(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to load user stores: %w", err)
	}

	cards, err := c.cardRepo.GetByUser(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to load card list: %w", err)
	}

	queued := 0
	for _, store := range userStores {
		if store.Slug == "" {
			continue
		}
		for _, card := range cards {
			spec := trackedCardSpec(card)
			requestID, err := c.RequestCheck(ctx, username, store.Slug, spec)
			if err != nil {
				c.logger.Errorw("failed to request check",
					"username", username, "store", store.Slug, "card", card.CardName, "error", err)
				continue
			}
			if requestID != "" {
				queued++
			}
		}
	}

	return queued, nil
}

// trackedCardSpec flattens a tracked card into the request spec published to
// workers. The first stored specification narrows the printing; a card
// without specifications is tracked as any printing.
func trackedCardSpec(card domain.TrackedCard) domain.CardRequestSpec {
	spec := domain.CardRequestSpec{
		Amount:   card.Amount,
		CardName: card.CardName,
		Finish:   domain.FinishNormal,
	}
	if len(card.Specifications) > 0 {
		s := card.Specifications[0]
		spec.SetCode = s.SetCode
		spec.CollectorID = s.CollectorID
		if s.Finish != "" {
			spec.Finish = s.Finish
		}
	}
	return spec
}

func (c *Coordinator) handleResult(ctx context.Context, message []byte) {
	res, err := bus.DecodeResult(message)
	if err != nil {
		metrics.ResultsDropped.Inc()
		c.logger.Errorw("dropping invalid worker result", "error", err)
		return
	}

	requester, known := c.correlate(res)
	if !known {
		// Late or unmatched results are still useful: cache and forward them
		// to whoever the worker says asked.
		c.logger.Warnw("worker result did not match a pending request",
			"request_id", res.RequestID, "username", res.Respondent.Username)
	}

	metrics.ResultsReceived.WithLabelValues(requester.StoreSlug).Inc()

	matched := filter.Listings(requester.CardData, res.Items)
	metrics.ListingsFiltered.Observe(float64(len(matched)))

	key := AvailabilityCacheKey(requester.StoreSlug, requester.CardData.CardName)

	var previous []domain.Listing
	if err := cache.GetJSON(ctx, c.cache, key, &previous); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warnw("failed to read previous availability data", "key", key, "error", err)
	}

	if err := cache.SetJSON(ctx, c.cache, key, matched, AvailabilityCacheTTL); err != nil {
		c.logger.Warnw("failed to cache availability data", "key", key, "error", err)
	}

	c.logger.Infow("availability result processed",
		"request_id", res.RequestID,
		"username", requester.Username,
		"store", requester.StoreSlug,
		"card", requester.CardData.CardName,
		"listings", len(res.Items),
		"matched", len(matched))

	c.notifier.AvailabilityData(requester.Username, requester.StoreSlug, requester.CardData.CardName, matched)

	if listingsChanged(previous, matched) {
		c.notifyTrackingUsers(ctx, requester, matched)
	}
}

// notifyTrackingUsers pushes changed availability for a card to every other
// user tracking it, so a check one user triggered updates everyone watching
// the same card.
func (c *Coordinator) notifyTrackingUsers(ctx context.Context, requester bus.AvailabilityRequestPayload, items []domain.Listing) {
	cardName := requester.CardData.CardName

	tracking, err := c.cardRepo.GetTrackingUsers(ctx, []string{cardName})
	if err != nil {
		c.logger.Warnw("failed to load tracking users", "card", cardName, "error", err)
		return
	}

	for _, username := range tracking[cardName] {
		if username == requester.Username {
			continue
		}
		c.notifier.AvailabilityData(username, requester.StoreSlug, cardName, items)
	}
}

// listingsChanged reports whether the filtered listings differ from the
// previously cached state, ignoring order.
func listingsChanged(previous, current []domain.Listing) bool {
	if len(previous) != len(current) {
		return true
	}

	counts := make(map[domain.Listing]int, len(previous))
	for _, l := range previous {
		counts[l]++
	}
	for _, l := range current {
		if counts[l] == 0 {
			return true
		}
		counts[l]--
	}

	return false
}

// correlate resolves a result back to its original request. Results carrying
// a request ID resolve through the pending table; results without one fall
// back to field equality on (username, store, card name), which cannot tell
// two identical concurrent requests apart.
func (c *Coordinator) correlate(res bus.AvailabilityResult) (bus.AvailabilityRequestPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.RequestID != "" {
		if payload, ok := c.pending[res.RequestID]; ok {
			delete(c.pending, res.RequestID)
			return payload, true
		}
		return res.Respondent, false
	}

	for id, payload := range c.pending {
		if payload.Username == res.Respondent.Username &&
			payload.StoreSlug == res.Respondent.StoreSlug &&
			payload.CardData.CardName == res.Respondent.CardData.CardName {
			delete(c.pending, id)
			return payload, true
		}
	}

	return res.Respondent, false
}

// PendingCount reports how many published requests still await a result.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
