package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/bus"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/queue"
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

type fakeBroker struct {
	mu        sync.Mutex
	published map[string][][]byte
	handlers  map[string]queue.MessageHandler
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		published: make(map[string][][]byte),
		handlers:  make(map[string]queue.MessageHandler),
	}
}

func (b *fakeBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[queueName] = append(b.published[queueName], message)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[queueName] = handler
	return nil
}

func (b *fakeBroker) Close() error { return nil }

type fakeSearcher struct {
	listings []domain.Listing
	err      error
}

func (s *fakeSearcher) Search(ctx context.Context, store *domain.Store, cardName string) ([]domain.Listing, error) {
	return s.listings, s.err
}

type fakeStoreRepo struct {
	store *domain.Store
}

func (r *fakeStoreRepo) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	if r.store == nil {
		return nil, errors.New("store not found")
	}
	return r.store, nil
}
func (r *fakeStoreRepo) List(ctx context.Context) ([]domain.Store, error) { return nil, nil }
func (r *fakeStoreRepo) GetUserStores(ctx context.Context, username string) ([]domain.Store, error) {
	return nil, nil
}
func (r *fakeStoreRepo) SetUserStores(ctx context.Context, username string, slugs []string) error {
	return nil
}

func TestSchedulerWorker(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop().Sugar()

	t.Run("valid command becomes a queued task", func(t *testing.T) {
		b := newFakeBus()
		broker := newFakeBroker()
		w := NewSchedulerWorker(b, broker, logger)
		require.NoError(t, w.Start())
		defer w.Stop()

		cmd := bus.SchedulerCommand{
			Command:   bus.CommandAvailabilityRequest,
			RequestID: "req-1",
			Payload: bus.AvailabilityRequestPayload{
				Username:  "kaya",
				StoreSlug: "lgs-1",
				CardData:  domain.CardRequestSpec{Amount: 1, CardName: "Black Lotus", Finish: domain.FinishNormal},
			},
		}
		raw, err := json.Marshal(cmd)
		require.NoError(t, err)

		b.handlers[bus.ChannelSchedulerRequests](ctx, raw)

		queued := broker.published[queue.QueueAvailabilityChecks]
		require.Len(t, queued, 1)

		var task domain.AvailabilityTask
		require.NoError(t, json.Unmarshal(queued[0], &task))
		assert.Equal(t, "req-1", task.RequestID)
		assert.Equal(t, "kaya", task.Username)
		assert.Equal(t, "lgs-1", task.StoreSlug)
		assert.Equal(t, "Black Lotus", task.Card.CardName)
	})

	t.Run("invalid command is dropped", func(t *testing.T) {
		b := newFakeBus()
		broker := newFakeBroker()
		w := NewSchedulerWorker(b, broker, logger)
		require.NoError(t, w.Start())
		defer w.Stop()

		b.handlers[bus.ChannelSchedulerRequests](ctx, []byte(`{"command":"availability_request"}`))

		assert.Empty(t, broker.published[queue.QueueAvailabilityChecks])
	})
}

func TestAvailabilityWorker(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop().Sugar()
	store := &domain.Store{Name: "LGS One", Slug: "lgs-1", SearchURL: "http://example.test/search"}

	task := domain.AvailabilityTask{
		RequestID: "req-9",
		Username:  "kaya",
		StoreSlug: "lgs-1",
		Card:      domain.CardRequestSpec{Amount: 1, CardName: "Black Lotus", Finish: domain.FinishNormal},
	}
	raw, err := json.Marshal(task)
	require.NoError(t, err)

	t.Run("publishes result with raw listings", func(t *testing.T) {
		b := newFakeBus()
		broker := newFakeBroker()
		searcher := &fakeSearcher{listings: []domain.Listing{
			{Name: "Black Lotus", Set: "LEA", Finish: domain.FinishNormal, Price: 25000},
		}}
		w := NewAvailabilityWorker(broker, b, searcher, &fakeStoreRepo{store: store}, logger)
		require.NoError(t, w.Start())
		defer w.Stop()

		require.NoError(t, broker.handlers[queue.QueueAvailabilityChecks](ctx, raw))

		published := b.published[bus.ChannelWorkerResults]
		require.Len(t, published, 1)

		res, err := bus.DecodeResult(published[0])
		require.NoError(t, err)
		assert.Equal(t, "req-9", res.RequestID)
		assert.Equal(t, "kaya", res.Respondent.Username)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Black Lotus", res.Items[0].Name)
	})

	t.Run("search failure publishes nothing and errors for retry", func(t *testing.T) {
		b := newFakeBus()
		broker := newFakeBroker()
		searcher := &fakeSearcher{err: errors.New("store unreachable")}
		w := NewAvailabilityWorker(broker, b, searcher, &fakeStoreRepo{store: store}, logger)
		require.NoError(t, w.Start())
		defer w.Stop()

		require.Error(t, broker.handlers[queue.QueueAvailabilityChecks](ctx, raw))
		assert.Empty(t, b.published[bus.ChannelWorkerResults])
	})

	t.Run("unknown store errors", func(t *testing.T) {
		b := newFakeBus()
		broker := newFakeBroker()
		w := NewAvailabilityWorker(broker, b, &fakeSearcher{}, &fakeStoreRepo{}, logger)
		require.NoError(t, w.Start())
		defer w.Stop()

		require.Error(t, broker.handlers[queue.QueueAvailabilityChecks](ctx, raw))
	})
}
