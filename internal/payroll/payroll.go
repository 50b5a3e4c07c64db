package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment attempt status constants. Legal moves: pending→paid,
// pending→failed, failed→pending (explicit retry). Nothing leaves paid.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// Attempt is the single payment record for one (employee, pay period).
type Attempt struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	PeriodStart   time.Time       `json:"period_start"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"due_date"`
	AttemptedAt   *time.Time      `json:"attempted_at,omitempty"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	RetryCount    int             `json:"retry_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (a *Attempt) CanBePaid() bool {
	return a.Status == StatusPending
}

func (a *Attempt) CanBeFailed() bool {
	return a.Status == StatusPending
}

func (a *Attempt) CanBeRetried() bool {
	return a.Status == StatusFailed
}

// MarkPaid settles the attempt. Only legal from pending.
func (a *Attempt) MarkPaid(at time.Time) {
	a.Status = StatusPaid
	a.AttemptedAt = &at
	a.FailureReason = nil
	a.UpdatedAt = at
}

// MarkFailed records one failed attempt. Only legal from pending.
func (a *Attempt) MarkFailed(at time.Time, reason string) {
	a.Status = StatusFailed
	a.AttemptedAt = &at
	a.FailureReason = &reason
	a.UpdatedAt = at
}

// ResetForRetry moves failed back to pending and clears the failure reason.
func (a *Attempt) ResetForRetry(at time.Time) {
	a.Status = StatusPending
	a.FailureReason = nil
	a.RetryCount++
	a.UpdatedAt = at
}
