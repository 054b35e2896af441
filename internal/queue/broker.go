package queue

import (
	"context"
)

// Broker is the durable task queue between the scheduler and the availability
// worker pool. Unlike the pub/sub command bus, queued tasks survive until a
// worker consumes them.
type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Close() error
}

type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueAvailabilityChecks    = "availability-checks"
	QueueAvailabilityChecksDLQ = "availability-checks-dlq"
)
