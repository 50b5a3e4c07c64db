package postgres

import (
	"time"

	payrollDatamodel "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/datamodel/payroll"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll"
	"gorm.io/gorm"
)

// PayrollRepository implements the payroll.Repository interface using GORM
type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) payroll.Repository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) Create(attempt *payroll.Attempt) error {
	return r.db.Create(toDataModel(attempt)).Error
}

func (r *PayrollRepository) GetByID(id string) (*payroll.Attempt, error) {
	var row payrollDatamodel.PaymentAttempt
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *PayrollRepository) GetByEmployeeAndPeriod(employeeID string, periodStart time.Time) (*payroll.Attempt, error) {
	var row payrollDatamodel.PaymentAttempt
	err := r.db.Where("employee_id = ? AND period_start = ?", employeeID, periodStart).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *PayrollRepository) ListFor(employeeID string) ([]*payroll.Attempt, error) {
	var rows []*payrollDatamodel.PaymentAttempt
	err := r.db.Where("employee_id = ?", employeeID).
		Order("period_start DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*payroll.Attempt, len(rows))
	for i, row := range rows {
		attempts[i] = fromDataModel(row)
	}
	return attempts, nil
}

func (r *PayrollRepository) Update(attempt *payroll.Attempt) error {
	attempt.UpdatedAt = time.Now()
	return r.db.Save(toDataModel(attempt)).Error
}

func toDataModel(a *payroll.Attempt) *payrollDatamodel.PaymentAttempt {
	return &payrollDatamodel.PaymentAttempt{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		PeriodStart:   a.PeriodStart,
		Amount:        a.Amount,
		Currency:      a.Currency,
		Status:        a.Status,
		DueDate:       a.DueDate,
		AttemptedAt:   a.AttemptedAt,
		FailureReason: a.FailureReason,
		RetryCount:    a.RetryCount,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func fromDataModel(row *payrollDatamodel.PaymentAttempt) *payroll.Attempt {
	return &payroll.Attempt{
		ID:            row.ID,
		EmployeeID:    row.EmployeeID,
		PeriodStart:   row.PeriodStart,
		Amount:        row.Amount,
		Currency:      row.Currency,
		Status:        row.Status,
		DueDate:       row.DueDate,
		AttemptedAt:   row.AttemptedAt,
		FailureReason: row.FailureReason,
		RetryCount:    row.RetryCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
