package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operational status constants.
const (
	StatusActive     = "active"
	StatusOnLeave    = "onLeave"
	StatusSuspended  = "suspended"
	StatusTerminated = "terminated"
)

// Employment type constants.
const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentContract = "contract"
	EmploymentIntern   = "intern"
)

var ValidStatuses = []string{StatusActive, StatusOnLeave, StatusSuspended, StatusTerminated}

var ValidEmploymentTypes = []string{EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern}

// Document is an opaque content reference attached to a record. The engine
// stores references only and never decodes content.
type Document struct {
	ID         string    `json:"id"`
	TypeLabel  string    `json:"type_label"`
	ContentRef string    `json:"content_ref"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Record is the employee aggregate root. It is never physically deleted;
// soft delete flips IsDeleted with a mandatory audited reason.
type Record struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	Email            *string         `json:"email,omitempty"`
	EmergencyContact *string         `json:"emergency_contact,omitempty"`
	Status           string          `json:"status"`
	EmploymentType   string          `json:"employment_type"`
	Currency         string          `json:"currency"`
	Salary           decimal.Decimal `json:"salary"`
	DateOfJoining    time.Time       `json:"date_of_joining"`
	DateOfLeaving    *time.Time      `json:"date_of_leaving,omitempty"`
	Documents        []Document      `json:"documents,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	IsDeleted        bool            `json:"is_deleted"`
	DeleteReason     *string         `json:"delete_reason,omitempty"`
	AvatarRef        *string         `json:"avatar_ref,omitempty"`
	PayrollStarted   bool            `json:"payroll_started"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// StatusAllowsLeavingDate reports whether a record in the given status may
// carry a leaving date. Once the date is set only suspended and terminated
// remain reachable.
func StatusAllowsLeavingDate(status string) bool {
	return status == StatusSuspended || status == StatusTerminated
}

func (r *Record) IsTerminated() bool {
	return r.Status == StatusTerminated
}

// JoiningDateLocked reports whether date_of_joining may still change: it is
// immutable once payroll has started.
func (r *Record) JoiningDateLocked() bool {
	return r.PayrollStarted
}

func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidEmploymentType(s string) bool {
	for _, v := range ValidEmploymentTypes {
		if s == v {
			return true
		}
	}
	return false
}
