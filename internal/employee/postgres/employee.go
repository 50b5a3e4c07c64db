package postgres

import (
	"errors"

	"gorm.io/gorm"

	internalErrors "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	employeeDatamodel "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/datamodel/employee"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/employee"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(rec *employee.Record) error {
	if err := r.db.Create(toDataModel(rec)).Error; err != nil {
		return internalErrors.NewStorageError("failed to create employee", err)
	}
	return nil
}

func (r *EmployeeRepository) GetByID(id string) (*employee.Record, error) {
	var row employeeDatamodel.Employee
	err := r.db.Preload("Documents").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, internalErrors.NewStorageError("failed to load employee", err)
	}
	return fromDataModel(&row), nil
}

func (r *EmployeeRepository) List(includeDeleted bool, limit, offset int) ([]*employee.Record, error) {
	query := r.db.Preload("Documents").Order("created_at DESC").Limit(limit).Offset(offset)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var rows []employeeDatamodel.Employee
	if err := query.Find(&rows).Error; err != nil {
		return nil, internalErrors.NewStorageError("failed to list employees", err)
	}

	recs := make([]*employee.Record, len(rows))
	for i := range rows {
		recs[i] = fromDataModel(&rows[i])
	}
	return recs, nil
}

// Update replaces the record and its documents. Documents are fully owned by
// the record, so a write replaces the whole set.
func (r *EmployeeRepository) Update(rec *employee.Record) error {
	row := toDataModel(rec)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		docs := row.Documents
		row.Documents = nil
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", rec.ID).Delete(&employeeDatamodel.Document{}).Error; err != nil {
			return err
		}
		if len(docs) > 0 {
			if err := tx.Create(&docs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return internalErrors.NewStorageError("failed to update employee", err)
	}
	return nil
}

func (r *EmployeeRepository) MarkPayrollStarted(id string) error {
	err := r.db.Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Update("payroll_started", true).Error
	if err != nil {
		return internalErrors.NewStorageError("failed to mark payroll started", err)
	}
	return nil
}

func toDataModel(rec *employee.Record) *employeeDatamodel.Employee {
	row := &employeeDatamodel.Employee{
		ID:               rec.ID,
		Name:             rec.Name,
		Phone:            rec.Phone,
		Email:            rec.Email,
		EmergencyContact: rec.EmergencyContact,
		Status:           rec.Status,
		EmploymentType:   rec.EmploymentType,
		Currency:         rec.Currency,
		Salary:           rec.Salary,
		DateOfJoining:    rec.DateOfJoining,
		DateOfLeaving:    rec.DateOfLeaving,
		Notes:            rec.Notes,
		IsDeleted:        rec.IsDeleted,
		DeleteReason:     rec.DeleteReason,
		AvatarRef:        rec.AvatarRef,
		PayrollStarted:   rec.PayrollStarted,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
	for _, d := range rec.Documents {
		row.Documents = append(row.Documents, employeeDatamodel.Document{
			ID:         d.ID,
			EmployeeID: rec.ID,
			TypeLabel:  d.TypeLabel,
			ContentRef: d.ContentRef,
			UploadedAt: d.UploadedAt,
		})
	}
	return row
}

func fromDataModel(row *employeeDatamodel.Employee) *employee.Record {
	rec := &employee.Record{
		ID:               row.ID,
		Name:             row.Name,
		Phone:            row.Phone,
		Email:            row.Email,
		EmergencyContact: row.EmergencyContact,
		Status:           row.Status,
		EmploymentType:   row.EmploymentType,
		Currency:         row.Currency,
		Salary:           row.Salary,
		DateOfJoining:    row.DateOfJoining,
		DateOfLeaving:    row.DateOfLeaving,
		Notes:            row.Notes,
		IsDeleted:        row.IsDeleted,
		DeleteReason:     row.DeleteReason,
		AvatarRef:        row.AvatarRef,
		PayrollStarted:   row.PayrollStarted,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	for _, d := range row.Documents {
		rec.Documents = append(rec.Documents, employee.Document{
			ID:         d.ID,
			TypeLabel:  d.TypeLabel,
			ContentRef: d.ContentRef,
			UploadedAt: d.UploadedAt,
		})
	}
	return rec
}
