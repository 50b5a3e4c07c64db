package payroll

import (
	"time"

	errors "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// OpenPeriodDTO opens a payment attempt for one pay period.
type OpenPeriodDTO struct {
	PeriodStart string          `json:"period_start"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	DueDate     string          `json:"due_date"`
}

func (dto OpenPeriodDTO) Parse() (periodStart, dueDate time.Time, appErr *errors.AppError) {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).NonNegativeDecimal()
	v.Field("currency", dto.Currency).Required().CurrencyCode()
	if appErr = v.Validate(); appErr != nil {
		return
	}

	var err error
	periodStart, err = time.Parse("2006-01-02", dto.PeriodStart)
	if err != nil {
		appErr = errors.NewValidationFieldError("period_start",
			"period_start must be in YYYY-MM-DD form", errors.ErrCodeInvalidDate)
		return
	}
	dueDate, err = time.Parse("2006-01-02", dto.DueDate)
	if err != nil {
		appErr = errors.NewValidationFieldError("due_date",
			"due_date must be in YYYY-MM-DD form", errors.ErrCodeInvalidDate)
		return
	}
	return
}

// MarkFailedDTO records a failed payment run with the processor's reason.
type MarkFailedDTO struct {
	Reason string `json:"reason"`
}

func (dto MarkFailedDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("reason", dto.Reason).Required().MaxLength(500, errors.ErrCodeReasonTooLong)
	return v.Validate()
}
