package worker

import (
	"context"
	"encoding/json"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/bus"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/queue"
	"go.uber.org/zap"
)

// SchedulerWorker bridges the command bus and the durable task queue: it
// consumes scheduler-requests, validates each command at the boundary, and
// enqueues an availability task for the worker pool. Malformed commands are
// dropped whole.
type SchedulerWorker struct {
	bus    bus.Bus
	broker queue.Broker
	logger *zap.SugaredLogger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSchedulerWorker(b bus.Bus, broker queue.Broker, logger *zap.SugaredLogger) *SchedulerWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerWorker{
		bus:    b,
		broker: broker,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (w *SchedulerWorker) Start() error {
	w.logger.Info("starting scheduler worker")

	return w.bus.Subscribe(w.ctx, bus.ChannelSchedulerRequests, w.handleMessage)
}

func (w *SchedulerWorker) Stop() {
	w.logger.Info("stopping scheduler worker")
	w.cancel()
}

func (w *SchedulerWorker) handleMessage(ctx context.Context, message []byte) {
	cmd, err := bus.DecodeCommand(message)
	if err != nil {
		w.logger.Errorw("dropping invalid scheduler command", "error", err)
		return
	}

	task := domain.AvailabilityTask{
		RequestID: cmd.RequestID,
		Username:  cmd.Payload.Username,
		StoreSlug: cmd.Payload.StoreSlug,
		Card:      cmd.Payload.CardData,
	}

	taskBytes, err := json.Marshal(task)
	if err != nil {
		w.logger.Errorw("failed to marshal availability task", "error", err)
		return
	}

	if err := w.broker.Publish(ctx, queue.QueueAvailabilityChecks, taskBytes); err != nil {
		w.logger.Errorw("failed to enqueue availability task",
			"request_id", cmd.RequestID, "error", err)
		return
	}

	w.logger.Infow("availability task queued",
		"request_id", cmd.RequestID,
		"username", cmd.Payload.Username,
		"store", cmd.Payload.StoreSlug,
		"card", cmd.Payload.CardData.CardName)
}
