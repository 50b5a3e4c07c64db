package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	Name             string          `gorm:"column:name;not null"`
	Phone            string          `gorm:"column:phone;not null"`
	Email            *string         `gorm:"column:email"`
	EmergencyContact *string         `gorm:"column:emergency_contact"`
	Status           string          `gorm:"column:status;default:active;not null"`
	EmploymentType   string          `gorm:"column:employment_type;not null"`
	Currency         string          `gorm:"column:currency;not null"`
	Salary           decimal.Decimal `gorm:"column:salary;type:numeric(14,2);not null"`
	DateOfJoining    time.Time       `gorm:"column:date_of_joining;type:date;not null"`
	DateOfLeaving    *time.Time      `gorm:"column:date_of_leaving;type:date"`
	Notes            string          `gorm:"column:notes;type:text"`
	IsDeleted        bool            `gorm:"column:is_deleted;default:false"`
	DeleteReason     *string         `gorm:"column:delete_reason"`
	AvatarRef        *string         `gorm:"column:avatar_ref"`
	PayrollStarted   bool            `gorm:"column:payroll_started;default:false"`
	CreatedAt        time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;default:now()"`

	Documents []Document `gorm:"foreignKey:EmployeeID"`
}

func (Employee) TableName() string {
	return "employees"
}

// Document is an opaque content reference; the engine never decodes content.
type Document struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	EmployeeID string    `gorm:"column:employee_id;type:uuid;index;not null"`
	TypeLabel  string    `gorm:"column:type_label;not null"`
	ContentRef string    `gorm:"column:content_ref;not null"`
	UploadedAt time.Time `gorm:"column:uploaded_at;default:now()"`
}

func (Document) TableName() string {
	return "employee_documents"
}
