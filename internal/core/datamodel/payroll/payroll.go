package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentAttempt is a financial record: one row per (employee, pay period),
// never deleted.
type PaymentAttempt struct {
	ID            string          `gorm:"primaryKey;type:uuid"`
	EmployeeID    string          `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:idx_employee_period"`
	PeriodStart   time.Time       `gorm:"column:period_start;type:date;not null;uniqueIndex:idx_employee_period"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency      string          `gorm:"column:currency;not null"`
	Status        string          `gorm:"column:status;default:pending;not null"`
	DueDate       time.Time       `gorm:"column:due_date;type:date;not null"`
	AttemptedAt   *time.Time      `gorm:"column:attempted_at"`
	FailureReason *string         `gorm:"column:failure_reason"`
	RetryCount    int             `gorm:"column:retry_count;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;default:now()"`
}

func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}
