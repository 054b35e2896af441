package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/bus"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/cache"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBus struct {
	mu        sync.Mutex
	published map[string][][]byte
	handlers  map[string]bus.MessageHandler
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		published: make(map[string][][]byte),
		handlers:  make(map[string]bus.MessageHandler),
	}
}

func (b *fakeBus) Publish(ctx context.Context, channel string, message []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[channel] = append(b.published[channel], message)
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context, channel string, handler bus.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[channel] = handler
	return nil
}

func (b *fakeBus) Close() error { return nil }

// deliver simulates a message arriving on a subscribed channel.
func (b *fakeBus) deliver(ctx context.Context, channel string, message []byte) {
	b.mu.Lock()
	handler := b.handlers[channel]
	b.mu.Unlock()
	handler(ctx, message)
}

func (b *fakeBus) publishedOn(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published[channel]
}

type notification struct {
	username, store, card string
	items                 []domain.Listing
}

type fakeNotifier struct {
	mu      sync.Mutex
	started []notification
	data    []notification
}

func (n *fakeNotifier) CheckStarted(username, storeSlug, cardName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = append(n.started, notification{username: username, store: storeSlug, card: cardName})
}

func (n *fakeNotifier) AvailabilityData(username, storeSlug, cardName string, items []domain.Listing) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.data = append(n.data, notification{username: username, store: storeSlug, card: cardName, items: items})
}

func (n *fakeNotifier) CardsUpdated(username string, cards []domain.TrackedCard) {}

type fakeCardRepo struct {
	cards    []domain.TrackedCard
	tracking map[string][]string
}

func (r *fakeCardRepo) Add(ctx context.Context, card *domain.TrackedCard) error { return nil }
func (r *fakeCardRepo) GetByUser(ctx context.Context, username string) ([]domain.TrackedCard, error) {
	return r.cards, nil
}
func (r *fakeCardRepo) Update(ctx context.Context, username, cardName string, update domain.TrackedCard) error {
	return nil
}
func (r *fakeCardRepo) Delete(ctx context.Context, username, cardName string) error { return nil }
func (r *fakeCardRepo) GetTrackingUsers(ctx context.Context, cardNames []string) (map[string][]string, error) {
	return r.tracking, nil
}

type fakeStoreRepo struct {
	stores []domain.Store
}

func (r *fakeStoreRepo) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	return nil, nil
}
func (r *fakeStoreRepo) List(ctx context.Context) ([]domain.Store, error) { return r.stores, nil }
func (r *fakeStoreRepo) GetUserStores(ctx context.Context, username string) ([]domain.Store, error) {
	return r.stores, nil
}
func (r *fakeStoreRepo) SetUserStores(ctx context.Context, username string, slugs []string) error {
	return nil
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeBus, *fakeNotifier, *cache.MemoryCache) {
	t.Helper()
	b := newFakeBus()
	c := cache.NewMemoryCache()
	n := &fakeNotifier{}
	coord := NewCoordinator(b, c, n, &fakeCardRepo{}, &fakeStoreRepo{}, zap.NewNop().Sugar())
	require.NoError(t, coord.Start(context.Background()))
	return coord, b, n, c
}

func TestRequestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes a validated command", func(t *testing.T) {
		coord, b, n, _ := newTestCoordinator(t)

		spec := domain.CardRequestSpec{Amount: 1, CardName: "Black Lotus", Finish: domain.FinishNormal}
		requestID, err := coord.RequestCheck(ctx, "kaya", "lgs-1", spec)
		require.NoError(t, err)
		assert.NotEmpty(t, requestID)

		published := b.publishedOn(bus.ChannelSchedulerRequests)
		require.Len(t, published, 1)

		cmd, err := bus.DecodeCommand(published[0])
		require.NoError(t, err)
		assert.Equal(t, bus.CommandAvailabilityRequest, cmd.Command)
		assert.Equal(t, requestID, cmd.RequestID)
		assert.Equal(t, "kaya", cmd.Payload.Username)
		assert.Equal(t, "lgs-1", cmd.Payload.StoreSlug)
		assert.Equal(t, "Black Lotus", cmd.Payload.CardData.CardName)

		require.Len(t, n.started, 1)
		assert.Equal(t, 1, coord.PendingCount())
	})

	t.Run("invalid specification is never published", func(t *testing.T) {
		coord, b, _, _ := newTestCoordinator(t)

		_, err := coord.RequestCheck(ctx, "", "lgs-1", domain.CardRequestSpec{Amount: 1, CardName: "Black Lotus"})
		assert.ErrorIs(t, err, bus.ErrInvalidSpecification)
		assert.Empty(t, b.publishedOn(bus.ChannelSchedulerRequests))
		assert.Equal(t, 0, coord.PendingCount())
	})

	t.Run("cached availability short circuits the bus", func(t *testing.T) {
		coord, b, n, c := newTestCoordinator(t)

		cached := []domain.Listing{{Name: "Black Lotus", Set: "LEA", Finish: domain.FinishNormal}}
		require.NoError(t, cache.SetJSON(ctx, c, AvailabilityCacheKey("lgs-1", "Black Lotus"), cached, AvailabilityCacheTTL))

		requestID, err := coord.RequestCheck(ctx, "kaya", "lgs-1",
			domain.CardRequestSpec{Amount: 1, CardName: "Black Lotus", Finish: domain.FinishNormal})
		require.NoError(t, err)
		assert.Empty(t, requestID)
		assert.Empty(t, b.publishedOn(bus.ChannelSchedulerRequests))

		require.Len(t, n.data, 1)
		assert.Equal(t, cached, n.data[0].items)
	})
}

func TestHandleResult(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end with filtering and caching", func(t *testing.T) {
		coord, b, n, c := newTestCoordinator(t)

		spec := domain.CardRequestSpec{Amount: 1, CardName: "Black Lotus", Finish: domain.FinishNormal}
		requestID, err := coord.RequestCheck(ctx, "kaya", "lgs-1", spec)
		require.NoError(t, err)

		result := bus.AvailabilityResult{
			RequestID: requestID,
			Respondent: bus.AvailabilityRequestPayload{
				Username: "kaya", StoreSlug: "lgs-1", CardData: spec,
			},
			Items: []domain.Listing{
				{Name: "Black Lotus", Set: "LEA", Finish: domain.FinishNormal},
				{Name: "Black Lotus (Foil)", Finish: domain.FinishFoil},
				{Name: "Mox Pearl", Set: "LEA", Finish: domain.FinishNormal},
			},
		}
		raw, err := json.Marshal(result)
		require.NoError(t, err)

		b.deliver(ctx, bus.ChannelWorkerResults, raw)

		// substring name match keeps both lotus listings, foil filter inactive
		require.Len(t, n.data, 1)
		require.Len(t, n.data[0].items, 2)
		assert.Equal(t, "Black Lotus", n.data[0].items[0].Name)
		assert.Equal(t, "Black Lotus (Foil)", n.data[0].items[1].Name)

		var cached []domain.Listing
		require.NoError(t, cache.GetJSON(ctx, c, AvailabilityCacheKey("lgs-1", "Black Lotus"), &cached))
		assert.Len(t, cached, 2)

		assert.Equal(t, 0, coord.PendingCount())
	})

	t.Run("result without request id correlates by field equality", func(t *testing.T) {
		coord, b, n, _ := newTestCoordinator(t)

		spec := domain.CardRequestSpec{Amount: 2, CardName: "Counterspell", Finish: domain.FinishNormal}
		_, err := coord.RequestCheck(ctx, "kaya", "lgs-1", spec)
		require.NoError(t, err)

		raw, _ := json.Marshal(bus.AvailabilityResult{
			Respondent: bus.AvailabilityRequestPayload{Username: "kaya", StoreSlug: "lgs-1", CardData: spec},
			Items:      []domain.Listing{{Name: "Counterspell", Set: "7ED"}},
		})
		b.deliver(ctx, bus.ChannelWorkerResults, raw)

		require.Len(t, n.data, 1)
		assert.Equal(t, 0, coord.PendingCount())
	})

	t.Run("unmatched result is still forwarded", func(t *testing.T) {
		coord, b, n, _ := newTestCoordinator(t)

		spec := domain.CardRequestSpec{Amount: 1, CardName: "Brainstorm", Finish: domain.FinishNormal}
		raw, _ := json.Marshal(bus.AvailabilityResult{
			RequestID:  "never-issued",
			Respondent: bus.AvailabilityRequestPayload{Username: "kaya", StoreSlug: "lgs-1", CardData: spec},
			Items:      []domain.Listing{{Name: "Brainstorm"}},
		})
		b.deliver(ctx, bus.ChannelWorkerResults, raw)

		require.Len(t, n.data, 1)
		assert.Equal(t, "kaya", n.data[0].username)
		_ = coord
	})

	t.Run("malformed result is dropped whole", func(t *testing.T) {
		_, b, n, _ := newTestCoordinator(t)

		b.deliver(ctx, bus.ChannelWorkerResults, []byte(`{"respondent":{"store_slug":"lgs-1"}}`))
		b.deliver(ctx, bus.ChannelWorkerResults, []byte("not json"))

		assert.Empty(t, n.data)
	})
}

func TestTrackingUserFanOut(t *testing.T) {
	ctx := context.Background()

	b := newFakeBus()
	c := cache.NewMemoryCache()
	n := &fakeNotifier{}
	cards := &fakeCardRepo{tracking: map[string][]string{
		"Black Lotus": {"kaya", "teferi"},
	}}
	coord := NewCoordinator(b, c, n, cards, &fakeStoreRepo{}, zap.NewNop().Sugar())
	require.NoError(t, coord.Start(ctx))

	spec := domain.CardRequestSpec{Amount: 1, CardName: "Black Lotus", Finish: domain.FinishNormal}
	requestID, err := coord.RequestCheck(ctx, "kaya", "lgs-1", spec)
	require.NoError(t, err)

	deliver := func(items []domain.Listing) {
		raw, err := json.Marshal(bus.AvailabilityResult{
			RequestID:  requestID,
			Respondent: bus.AvailabilityRequestPayload{Username: "kaya", StoreSlug: "lgs-1", CardData: spec},
			Items:      items,
		})
		require.NoError(t, err)
		b.deliver(ctx, bus.ChannelWorkerResults, raw)
	}

	listings := []domain.Listing{{Name: "Black Lotus", Set: "LEA", Finish: domain.FinishNormal}}
	deliver(listings)

	// the requester gets the data, and the change reaches the other tracker
	require.Len(t, n.data, 2)
	assert.Equal(t, "kaya", n.data[0].username)
	assert.Equal(t, "teferi", n.data[1].username)
	assert.Equal(t, listings, n.data[1].items)

	// an identical follow-up result changes nothing, so only the requester hears it
	deliver(listings)
	require.Len(t, n.data, 3)
	assert.Equal(t, "kaya", n.data[2].username)
}

func TestListingsChanged(t *testing.T) {
	a := domain.Listing{Name: "Black Lotus", Set: "LEA", Price: 9999}
	b := domain.Listing{Name: "Black Lotus", Set: "LEA", Price: 8500}

	assert.False(t, listingsChanged(nil, nil))
	assert.False(t, listingsChanged([]domain.Listing{a}, []domain.Listing{a}))
	assert.False(t, listingsChanged([]domain.Listing{a, b}, []domain.Listing{b, a}))
	assert.True(t, listingsChanged(nil, []domain.Listing{a}))
	assert.True(t, listingsChanged([]domain.Listing{a}, []domain.Listing{b}))
}

func TestCheckUserCards(t *testing.T) {
	ctx := context.Background()

	b := newFakeBus()
	c := cache.NewMemoryCache()
	n := &fakeNotifier{}
	cards := &fakeCardRepo{cards: []domain.TrackedCard{
		{Username: "kaya", CardName: "Black Lotus", Amount: 1},
		{Username: "kaya", CardName: "Counterspell", Amount: 4, Specifications: []domain.CardRequestSpec{
			{SetCode: "7ED", Finish: domain.FinishFoil},
		}},
	}}
	storesRepo := &fakeStoreRepo{stores: []domain.Store{
		{Name: "LGS One", Slug: "lgs-1"},
		{Name: "LGS Two", Slug: "lgs-2"},
	}}
	coord := NewCoordinator(b, c, n, cards, storesRepo, zap.NewNop().Sugar())
	require.NoError(t, coord.Start(ctx))

	queued, err := coord.CheckUserCards(ctx, "kaya")
	require.NoError(t, err)

	// two cards across two stores
	assert.Equal(t, 4, queued)
	assert.Len(t, b.publishedOn(bus.ChannelSchedulerRequests), 4)
	assert.Equal(t, 4, coord.PendingCount())

	// tracked specifications ride along on the published command
	var foilSeen bool
	for _, raw := range b.publishedOn(bus.ChannelSchedulerRequests) {
		cmd, err := bus.DecodeCommand(raw)
		require.NoError(t, err)
		if cmd.Payload.CardData.CardName == "Counterspell" {
			assert.Equal(t, "7ED", cmd.Payload.CardData.SetCode)
			assert.Equal(t, domain.FinishFoil, cmd.Payload.CardData.Finish)
			foilSeen = true
		}
	}
	assert.True(t, foilSeen)
}
