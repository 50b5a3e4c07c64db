package audit

import (
	"encoding/json"
	"time"
)

// AuditEntry rows are append-only. Seq is a table-wide autoincrement, which
// makes it monotonic within any one employee's trail as well.
type AuditEntry struct {
	Seq           int64           `gorm:"primaryKey;autoIncrement;column:seq"`
	EmployeeID    string          `gorm:"column:employee_id;type:uuid;index;not null"`
	Action        string          `gorm:"column:action;not null"`
	ActorID       string          `gorm:"column:actor_id;not null"`
	ActorKind     string          `gorm:"column:actor_kind;not null"`
	Note          *string         `gorm:"column:note"`
	Diff          json.RawMessage `gorm:"column:diff;type:jsonb"`
	CorrelationID *string         `gorm:"column:correlation_id;type:uuid"`
	CreatedAt     time.Time       `gorm:"column:created_at;default:now()"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
