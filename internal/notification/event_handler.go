package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/events"
)

type EventHandler struct {
	sender Sender
	logger *slog.Logger
}

func NewEventHandler(sender Sender, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		sender: sender,
		logger: logger,
	}
}

func (h *EventHandler) HandlePaymentFailed(ctx context.Context, event events.Event) error {
	failedEvent, ok := event.(*events.PaymentFailedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment failed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentFailedEvent, got %T", event)
	}

	return h.sender.Send(Message{
		Topic:   event.EventType(),
		Subject: "salary payment failed",
		Body:    failedEvent.FailureReason,
		Fields: map[string]interface{}{
			"attempt_id":  failedEvent.AttemptID,
			"employee_id": failedEvent.EmployeeID,
			"retry_count": failedEvent.RetryCount,
		},
	})
}

func (h *EventHandler) HandleEmployeeTerminated(ctx context.Context, event events.Event) error {
	termEvent, ok := event.(*events.EmployeeTerminatedEvent)
	if !ok {
		h.logger.Error("invalid event type for termination handler", "event_type", event.EventType())
		return fmt.Errorf("expected EmployeeTerminatedEvent, got %T", event)
	}

	fields := map[string]interface{}{
		"employee_id": termEvent.EmployeeID,
		"actor_id":    termEvent.ActorID,
	}
	if termEvent.DateOfLeaving != nil {
		fields["date_of_leaving"] = termEvent.DateOfLeaving.Format("2006-01-02")
	}

	return h.sender.Send(Message{
		Topic:   event.EventType(),
		Subject: "employee terminated",
		Fields:  fields,
	})
}

func (h *EventHandler) HandleCredentialsChanged(ctx context.Context, event events.Event) error {
	credEvent, ok := event.(*events.CredentialsChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for credentials handler", "event_type", event.EventType())
		return fmt.Errorf("expected CredentialsChangedEvent, got %T", event)
	}

	return h.sender.Send(Message{
		Topic:   event.EventType(),
		Subject: "operator credentials changed",
		Fields: map[string]interface{}{
			"user_email": credEvent.UserEmail,
		},
	})
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePaymentFailed, h.HandlePaymentFailed)
	eventBus.Subscribe(events.EventTypeEmployeeTerminated, h.HandleEmployeeTerminated)
	eventBus.Subscribe(events.EventTypeCredentialsChanged, h.HandleCredentialsChanged)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypePaymentFailed,
			events.EventTypeEmployeeTerminated,
			events.EventTypeCredentialsChanged,
		})
}
