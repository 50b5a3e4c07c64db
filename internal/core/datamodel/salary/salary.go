package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryPeriod rows are closed by setting effective_to; they are never
// updated otherwise and never deleted.
type SalaryPeriod struct {
	ID            string          `gorm:"primaryKey;type:uuid"`
	EmployeeID    string          `gorm:"column:employee_id;type:uuid;index;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency      string          `gorm:"column:currency;not null"`
	EffectiveFrom time.Time       `gorm:"column:effective_from;not null"`
	EffectiveTo   *time.Time      `gorm:"column:effective_to"`
	Reason        string          `gorm:"column:reason"`
	CreatedAt     time.Time       `gorm:"column:created_at;default:now()"`
}

func (SalaryPeriod) TableName() string {
	return "salary_periods"
}
