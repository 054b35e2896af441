// Package bus defines the pub/sub command protocol between the web process,
// the scheduler and the worker pool: the message schemas for each channel,
// their boundary validation, and the transport used to carry them.
//
// Delivery is at-most-once and fire-and-forget. The transport guarantees no
// ordering and no redelivery; a lost request simply yields no result.
package bus

import (
	"context"
	"errors"
)

const (
	// ChannelSchedulerRequests carries SchedulerCommand envelopes toward the
	// scheduler.
	ChannelSchedulerRequests = "scheduler-requests"
	// ChannelWorkerResults carries AvailabilityResult messages published by
	// workers after completing a check.
	ChannelWorkerResults = "worker-results"
)

var (
	// ErrInvalidSpecification is returned when an outbound payload fails
	// schema validation and is therefore never published.
	ErrInvalidSpecification = errors.New("invalid specification")
	// ErrInvalidMessage is returned when an inbound message cannot be parsed
	// into one of the known schemas. Such messages are dropped whole, never
	// partially processed.
	ErrInvalidMessage = errors.New("invalid message")
)

// MessageHandler processes one raw message from a channel.
type MessageHandler func(ctx context.Context, message []byte)

// Bus is the pub/sub transport behind the command protocol.
type Bus interface {
	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string, handler MessageHandler) error
	Close() error
}
