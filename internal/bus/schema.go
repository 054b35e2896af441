package bus

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
)

// CommandAvailabilityRequest is currently the only command kind on the
// scheduler-requests channel. The envelope admits future kinds through the
// same tag+payload shape.
const CommandAvailabilityRequest = "availability_request"

var validate = validator.New()

// AvailabilityRequestPayload identifies who asked, at which store, and for
// what card. It is immutable once published.
type AvailabilityRequestPayload struct {
	Username  string                 `json:"username" validate:"required"`
	StoreSlug string                 `json:"store_slug" validate:"required"`
	CardData  domain.CardRequestSpec `json:"card_data"`
}

// SchedulerCommand is the envelope published on the scheduler-requests
// channel. RequestID is generated at publish time and carried through to the
// result so responses correlate without relying on field equality.
type SchedulerCommand struct {
	Command   string                     `json:"command" validate:"required,eq=availability_request"`
	RequestID string                     `json:"request_id" validate:"required"`
	Payload   AvailabilityRequestPayload `json:"payload" validate:"required"`
}

// AvailabilityResult is the message a worker publishes on the worker-results
// channel after completing a check. Respondent echoes the original payload;
// Items may be empty when the store had nothing matching.
type AvailabilityResult struct {
	RequestID  string                     `json:"request_id"`
	Respondent AvailabilityRequestPayload `json:"respondent" validate:"required"`
	Items      []domain.Listing           `json:"items"`
}

// ValidatePayload schema-checks an outbound payload before publish.
func ValidatePayload(p AvailabilityRequestPayload) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpecification, err)
	}
	if p.CardData.CardName == "" {
		return fmt.Errorf("%w: card_data is missing a name", ErrInvalidSpecification)
	}
	return nil
}

// DecodeCommand parses and validates an inbound scheduler-requests message.
func DecodeCommand(message []byte) (SchedulerCommand, error) {
	var cmd SchedulerCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		return SchedulerCommand{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := validate.Struct(cmd); err != nil {
		return SchedulerCommand{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := ValidatePayload(cmd.Payload); err != nil {
		return SchedulerCommand{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return cmd, nil
}

// DecodeResult parses and validates an inbound worker-results message.
func DecodeResult(message []byte) (AvailabilityResult, error) {
	var res AvailabilityResult
	if err := json.Unmarshal(message, &res); err != nil {
		return AvailabilityResult{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := ValidatePayload(res.Respondent); err != nil {
		return AvailabilityResult{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return res, nil
}
