package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/bus"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/metrics"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/queue"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/repo"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/stores"
	"go.uber.org/zap"
)

// AvailabilityWorker consumes availability tasks from the queue, queries the
// store's catalog, and publishes the raw listings on the worker-results
// channel. Filtering happens on the requesting side; the worker reports
// everything it saw.
type AvailabilityWorker struct {
	broker    queue.Broker
	bus       bus.Bus
	searcher  stores.Searcher
	storeRepo repo.StoreRepository
	logger    *zap.SugaredLogger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewAvailabilityWorker(
	broker queue.Broker,
	b bus.Bus,
	searcher stores.Searcher,
	storeRepo repo.StoreRepository,
	logger *zap.SugaredLogger,
) *AvailabilityWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &AvailabilityWorker{
		broker:    broker,
		bus:       b,
		searcher:  searcher,
		storeRepo: storeRepo,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *AvailabilityWorker) Start() error {
	w.logger.Info("starting availability worker")

	return w.broker.Subscribe(w.ctx, queue.QueueAvailabilityChecks, w.handleMessage)
}

func (w *AvailabilityWorker) Stop() {
	w.logger.Info("stopping availability worker")
	w.cancel()
}

func (w *AvailabilityWorker) handleMessage(ctx context.Context, message []byte) error {
	var task domain.AvailabilityTask
	if err := json.Unmarshal(message, &task); err != nil {
		w.logger.Errorw("failed to unmarshal availability task", "error", err)
		return fmt.Errorf("failed to unmarshal availability task: %w", err)
	}

	w.logger.Infow("processing availability task",
		"request_id", task.RequestID, "store", task.StoreSlug, "card", task.Card.CardName)

	store, err := w.storeRepo.GetBySlug(ctx, task.StoreSlug)
	if err != nil {
		metrics.TasksProcessed.WithLabelValues("failed").Inc()
		w.logger.Errorw("unknown store for availability task",
			"request_id", task.RequestID, "store", task.StoreSlug, "error", err)
		return err
	}

	listings, err := w.searcher.Search(ctx, store, task.Card.CardName)
	if err != nil {
		metrics.TasksProcessed.WithLabelValues("failed").Inc()
		w.logger.Errorw("store search failed",
			"request_id", task.RequestID, "store", task.StoreSlug, "card", task.Card.CardName, "error", err)
		return err
	}

	result := bus.AvailabilityResult{
		RequestID: task.RequestID,
		Respondent: bus.AvailabilityRequestPayload{
			Username:  task.Username,
			StoreSlug: task.StoreSlug,
			CardData:  task.Card,
		},
		Items: listings,
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal availability result: %w", err)
	}

	if err := w.bus.Publish(ctx, bus.ChannelWorkerResults, resultBytes); err != nil {
		metrics.TasksProcessed.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to publish availability result: %w", err)
	}

	metrics.TasksProcessed.WithLabelValues("completed").Inc()
	w.logger.Infow("availability result published",
		"request_id", task.RequestID, "store", task.StoreSlug, "card", task.Card.CardName, "listings", len(listings))

	return nil
}
