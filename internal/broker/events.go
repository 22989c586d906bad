package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pawnshop-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing contract lifecycle events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishContractCreated publishes a ContractCreated event
func (ep *EventPublisher) PublishContractCreated(ctx context.Context, event *models.ContractCreatedEvent) error {
	key := fmt.Sprintf("contract-%d", event.ContractID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishContractRenewed publishes a ContractRenewed event
func (ep *EventPublisher) PublishContractRenewed(ctx context.Context, event *models.ContractRenewedEvent) error {
	key := fmt.Sprintf("contract-%d", event.ContractID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishContractRedeemed publishes a ContractRedeemed event
func (ep *EventPublisher) PublishContractRedeemed(ctx context.Context, event *models.ContractRedeemedEvent) error {
	key := fmt.Sprintf("contract-%d", event.ContractID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishContractForfeited publishes a ContractForfeited event
func (ep *EventPublisher) PublishContractForfeited(ctx context.Context, event *models.ContractForfeitedEvent) error {
	key := fmt.Sprintf("contract-%d", event.ContractID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming contract events to registered callbacks
type EventHandler struct {
	onContractCreated   func(context.Context, *models.ContractCreatedEvent) error
	onContractRenewed   func(context.Context, *models.ContractRenewedEvent) error
	onContractRedeemed  func(context.Context, *models.ContractRedeemedEvent) error
	onContractForfeited func(context.Context, *models.ContractForfeitedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnContractCreated registers a handler for ContractCreated events
func (eh *EventHandler) OnContractCreated(handler func(context.Context, *models.ContractCreatedEvent) error) {
	eh.onContractCreated = handler
}

// OnContractRenewed registers a handler for ContractRenewed events
func (eh *EventHandler) OnContractRenewed(handler func(context.Context, *models.ContractRenewedEvent) error) {
	eh.onContractRenewed = handler
}

// OnContractRedeemed registers a handler for ContractRedeemed events
func (eh *EventHandler) OnContractRedeemed(handler func(context.Context, *models.ContractRedeemedEvent) error) {
	eh.onContractRedeemed = handler
}

// OnContractForfeited registers a handler for ContractForfeited events
func (eh *EventHandler) OnContractForfeited(handler func(context.Context, *models.ContractForfeitedEvent) error) {
	eh.onContractForfeited = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeContractCreated:
		if eh.onContractCreated != nil {
			var event models.ContractCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContractCreated event: %w", err)
			}
			return eh.onContractCreated(ctx, &event)
		}

	case models.EventTypeContractRenewed:
		if eh.onContractRenewed != nil {
			var event models.ContractRenewedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContractRenewed event: %w", err)
			}
			return eh.onContractRenewed(ctx, &event)
		}

	case models.EventTypeContractRedeemed:
		if eh.onContractRedeemed != nil {
			var event models.ContractRedeemedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContractRedeemed event: %w", err)
			}
			return eh.onContractRedeemed(ctx, &event)
		}

	case models.EventTypeContractForfeited:
		if eh.onContractForfeited != nil {
			var event models.ContractForfeitedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContractForfeited event: %w", err)
			}
			return eh.onContractForfeited(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
