package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"camp-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishRegistrationCreated publishes RegistrationCreated event
func (ep *EventPublisher) PublishRegistrationCreated(ctx context.Context, event *models.RegistrationCreatedEvent) error {
	key := fmt.Sprintf("registration-%s", event.RegistrationID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentReconciled publishes PaymentReconciled event
func (ep *EventPublisher) PublishPaymentReconciled(ctx context.Context, event *models.PaymentReconciledEvent) error {
	key := fmt.Sprintf("registration-%s", event.RegistrationID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentFailed publishes PaymentFailed event
func (ep *EventPublisher) PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	key := fmt.Sprintf("registration-%s", event.RegistrationID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onRegistrationCreated func(context.Context, *models.RegistrationCreatedEvent) error
	onPaymentReconciled   func(context.Context, *models.PaymentReconciledEvent) error
	onPaymentFailed       func(context.Context, *models.PaymentFailedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnRegistrationCreated registers a handler for RegistrationCreated events
func (eh *EventHandler) OnRegistrationCreated(handler func(context.Context, *models.RegistrationCreatedEvent) error) {
	eh.onRegistrationCreated = handler
}

// OnPaymentReconciled registers a handler for PaymentReconciled events
func (eh *EventHandler) OnPaymentReconciled(handler func(context.Context, *models.PaymentReconciledEvent) error) {
	eh.onPaymentReconciled = handler
}

// OnPaymentFailed registers a handler for PaymentFailed events
func (eh *EventHandler) OnPaymentFailed(handler func(context.Context, *models.PaymentFailedEvent) error) {
	eh.onPaymentFailed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeRegistrationCreated:
		if eh.onRegistrationCreated != nil {
			var event models.RegistrationCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal RegistrationCreated event: %w", err)
			}
			return eh.onRegistrationCreated(ctx, &event)
		}

	case models.EventTypePaymentReconciled:
		if eh.onPaymentReconciled != nil {
			var event models.PaymentReconciledEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PaymentReconciled event: %w", err)
			}
			return eh.onPaymentReconciled(ctx, &event)
		}

	case models.EventTypePaymentFailed:
		if eh.onPaymentFailed != nil {
			var event models.PaymentFailedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PaymentFailed event: %w", err)
			}
			return eh.onPaymentFailed(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
