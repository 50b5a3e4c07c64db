package postgres

import (
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	auditDatamodel "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

// AuditRepository implements the audit.Repository interface using GORM
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

// Append is insert-only; rows are never updated or deleted.
func (r *AuditRepository) Append(entry *audit.Entry) error {
	row := toDataModel(entry)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	entry.Seq = row.Seq
	return nil
}

func (r *AuditRepository) ListFor(employeeID string, limit int, beforeSeq int64) ([]*audit.Entry, error) {
	var rows []*auditDatamodel.AuditEntry

	q := r.db.Where("employee_id = ?", employeeID)
	if beforeSeq > 0 {
		q = q.Where("seq < ?", beforeSeq)
	}
	err := q.Order("seq DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*audit.Entry, len(rows))
	for i, row := range rows {
		entries[i] = fromDataModel(row)
	}
	return entries, nil
}

func toDataModel(e *audit.Entry) *auditDatamodel.AuditEntry {
	return &auditDatamodel.AuditEntry{
		Seq:           e.Seq,
		EmployeeID:    e.EmployeeID,
		Action:        e.Action,
		ActorID:       e.ActorID,
		ActorKind:     e.ActorKind,
		Note:          e.Note,
		Diff:          e.Diff,
		CorrelationID: e.CorrelationID,
		CreatedAt:     e.CreatedAt,
	}
}

func fromDataModel(row *auditDatamodel.AuditEntry) *audit.Entry {
	return &audit.Entry{
		Seq:           row.Seq,
		EmployeeID:    row.EmployeeID,
		Action:        row.Action,
		ActorID:       row.ActorID,
		ActorKind:     row.ActorKind,
		Note:          row.Note,
		Diff:          row.Diff,
		CorrelationID: row.CorrelationID,
		CreatedAt:     row.CreatedAt,
	}
}
