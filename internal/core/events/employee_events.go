package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeTerminated = "employee.terminated"
	EventTypePaymentFailed      = "payment.failed"
	EventTypeCredentialsChanged = "credentials.changed"
)

type EmployeeTerminatedEvent struct {
	BaseEvent
	EmployeeID    string     `json:"employee_id"`
	DateOfLeaving *time.Time `json:"date_of_leaving,omitempty"`
	ActorID       string     `json:"actor_id"`
}

func NewEmployeeTerminatedEvent(employeeID string, dateOfLeaving *time.Time, actorID string) *EmployeeTerminatedEvent {
	return &EmployeeTerminatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEmployeeTerminated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id": employeeID,
				"actor_id":    actorID,
			},
		},
		EmployeeID:    employeeID,
		DateOfLeaving: dateOfLeaving,
		ActorID:       actorID,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	AttemptID     string `json:"attempt_id"`
	EmployeeID    string `json:"employee_id"`
	FailureReason string `json:"failure_reason"`
	RetryCount    int    `json:"retry_count"`
}

func NewPaymentFailedEvent(attemptID, employeeID, failureReason string, retryCount int) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"attempt_id":     attemptID,
				"employee_id":    employeeID,
				"failure_reason": failureReason,
				"retry_count":    retryCount,
			},
		},
		AttemptID:     attemptID,
		EmployeeID:    employeeID,
		FailureReason: failureReason,
		RetryCount:    retryCount,
	}
}

type CredentialsChangedEvent struct {
	BaseEvent
	UserEmail string `json:"user_email"`
}

func NewCredentialsChangedEvent(userEmail string) *CredentialsChangedEvent {
	return &CredentialsChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCredentialsChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_email": userEmail,
			},
		},
		UserEmail: userEmail,
	}
}
