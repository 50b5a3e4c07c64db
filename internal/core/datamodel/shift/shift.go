package shift

import "time"

// ShiftDefinition stores a recurring weekly shift. Times are local
// time-of-day in "15:04" form; weekdays are comma-joined labels.
type ShiftDefinition struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	EmployeeID string    `gorm:"column:employee_id;type:uuid;index;not null"`
	StartTime  string    `gorm:"column:start_time;not null"`
	EndTime    string    `gorm:"column:end_time;not null"`
	Weekdays   string    `gorm:"column:weekdays;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

func (ShiftDefinition) TableName() string {
	return "shift_definitions"
}
