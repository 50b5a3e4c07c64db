package employee

import (
	"time"

	errors "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/common/validation"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/salary"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/shift"
	"github.com/shopspring/decimal"
)

// View is the fully hydrated employee returned from every mutating call, so
// callers never need a second read to observe the effect of a write.
type View struct {
	Record         *Record             `json:"record"`
	CurrentSalary  *salary.Period      `json:"current_salary,omitempty"`
	RecentAudit    []*audit.Entry      `json:"recent_audit"`
	CurrentPayment *payroll.Attempt    `json:"current_payment,omitempty"`
	Shifts         []*shift.Definition `json:"shifts"`
}

// DocumentDTO carries one opaque document reference.
type DocumentDTO struct {
	TypeLabel  string `json:"type_label"`
	ContentRef string `json:"content_ref"`
}

// CreateEmployeeDTO is the request payload for hiring an employee.
type CreateEmployeeDTO struct {
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	Email            *string         `json:"email,omitempty"`
	EmergencyContact *string         `json:"emergency_contact,omitempty"`
	EmploymentType   string          `json:"employment_type"`
	Currency         string          `json:"currency"`
	Salary           decimal.Decimal `json:"salary"`
	DateOfJoining    time.Time       `json:"date_of_joining"`
	Notes            string          `json:"notes,omitempty"`
	AvatarRef        *string         `json:"avatar_ref,omitempty"`
	Documents        []DocumentDTO   `json:"documents,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200, errors.ErrCodeValidationFailed)
	v.Field("phone", dto.Phone).Required().
		MinLength(6, errors.ErrCodeInvalidPhone).
		MaxLength(20, errors.ErrCodeInvalidPhone)
	v.Field("employment_type", dto.EmploymentType).Required().
		OneOf(ValidEmploymentTypes, errors.ErrCodeValidationFailed)
	v.Field("currency", dto.Currency).Required().CurrencyCode()
	v.Field("salary", dto.Salary).NonNegativeDecimal()
	v.Field("date_of_joining", dto.DateOfJoining).Required()
	return v.Validate()
}

// UpdateEmployeeDTO is a sparse patch; nil fields are left untouched.
// Status, leaving date, compensation and the soft-delete flag are not
// patchable here; they go through their dedicated lifecycle operations.
type UpdateEmployeeDTO struct {
	Name             *string       `json:"name,omitempty"`
	Phone            *string       `json:"phone,omitempty"`
	Email            *string       `json:"email,omitempty"`
	EmergencyContact *string       `json:"emergency_contact,omitempty"`
	EmploymentType   *string       `json:"employment_type,omitempty"`
	DateOfJoining    *time.Time    `json:"date_of_joining,omitempty"`
	Notes            *string       `json:"notes,omitempty"`
	AvatarRef        *string       `json:"avatar_ref,omitempty"`
	Documents        []DocumentDTO `json:"documents,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(200, errors.ErrCodeValidationFailed)
	}
	if dto.Phone != nil {
		v.Field("phone", *dto.Phone).Required().
			MinLength(6, errors.ErrCodeInvalidPhone).
			MaxLength(20, errors.ErrCodeInvalidPhone)
	}
	if dto.EmploymentType != nil {
		v.Field("employment_type", *dto.EmploymentType).
			OneOf(ValidEmploymentTypes, errors.ErrCodeValidationFailed)
	}
	return v.Validate()
}

type SetStatusDTO struct {
	Status string `json:"status"`
}

func (dto SetStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().
		OneOf(ValidStatuses, errors.ErrCodeInvalidStatus)
	return v.Validate()
}

type SetLeavingDateDTO struct {
	Date string `json:"date"`
}

func (dto SetLeavingDateDTO) Parse() (time.Time, *errors.AppError) {
	t, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return time.Time{}, errors.NewValidationFieldError("date",
			"date must be in YYYY-MM-DD form", errors.ErrCodeInvalidDate)
	}
	return t, nil
}

type SoftDeleteDTO struct {
	Reason string `json:"reason"`
}

func (dto SoftDeleteDTO) Validate() *errors.AppError {
	return validation.ValidateSoftDeleteReason(dto.Reason)
}

type CompensationDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Reason   string          `json:"reason"`
}

func (dto CompensationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).NonNegativeDecimal()
	v.Field("currency", dto.Currency).Required().CurrencyCode()
	v.Field("reason", dto.Reason).Required().MaxLength(500, errors.ErrCodeReasonTooLong)
	return v.Validate()
}

type ShiftDTO struct {
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Weekdays  []string `json:"weekdays"`
}

type ReplaceShiftsDTO struct {
	Shifts []ShiftDTO `json:"shifts"`
}

func (dto ReplaceShiftsDTO) Definitions() []*shift.Definition {
	defs := make([]*shift.Definition, len(dto.Shifts))
	for i, s := range dto.Shifts {
		defs[i] = &shift.Definition{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Weekdays:  s.Weekdays,
		}
	}
	return defs
}

