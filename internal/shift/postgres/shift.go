package postgres

import (
	"strings"

	shiftDatamodel "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/datamodel/shift"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/shift"
	"gorm.io/gorm"
)

// ShiftRepository implements the shift.Repository interface using GORM
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.Repository {
	return &ShiftRepository{db: db}
}

// ReplaceAll swaps the employee's schedule wholesale in one transaction.
func (r *ShiftRepository) ReplaceAll(employeeID string, defs []*shift.Definition) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).
			Delete(&shiftDatamodel.ShiftDefinition{}).Error; err != nil {
			return err
		}
		for _, d := range defs {
			if err := tx.Create(toDataModel(d)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ShiftRepository) ListFor(employeeID string) ([]*shift.Definition, error) {
	var rows []*shiftDatamodel.ShiftDefinition
	err := r.db.Where("employee_id = ?", employeeID).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	defs := make([]*shift.Definition, len(rows))
	for i, row := range rows {
		defs[i] = fromDataModel(row)
	}
	return defs, nil
}

func toDataModel(d *shift.Definition) *shiftDatamodel.ShiftDefinition {
	return &shiftDatamodel.ShiftDefinition{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		Weekdays:   strings.Join(d.Weekdays, ","),
	}
}

func fromDataModel(row *shiftDatamodel.ShiftDefinition) *shift.Definition {
	var days []string
	if row.Weekdays != "" {
		days = strings.Split(row.Weekdays, ",")
	}
	return &shift.Definition{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		StartTime:  row.StartTime,
		EndTime:    row.EndTime,
		Weekdays:   days,
	}
}
