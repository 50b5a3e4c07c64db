package postgres

import (
	"time"

	salaryDatamodel "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/datamodel/salary"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/salary"
	"gorm.io/gorm"
)

// SalaryRepository implements the salary.Repository interface using GORM
type SalaryRepository struct {
	db *gorm.DB
}

func NewSalaryRepository(db *gorm.DB) salary.Repository {
	return &SalaryRepository{db: db}
}

func (r *SalaryRepository) Create(period *salary.Period) error {
	return r.db.Create(toDataModel(period)).Error
}

// CloseOpen sets effective_to on the open period, if any. Closed periods are
// never touched again.
func (r *SalaryRepository) CloseOpen(employeeID string, effectiveTo time.Time) (bool, error) {
	res := r.db.Model(&salaryDatamodel.SalaryPeriod{}).
		Where("employee_id = ? AND effective_to IS NULL", employeeID).
		Update("effective_to", effectiveTo)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SalaryRepository) CurrentPeriod(employeeID string) (*salary.Period, error) {
	var row salaryDatamodel.SalaryPeriod
	err := r.db.Where("employee_id = ? AND effective_to IS NULL", employeeID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (r *SalaryRepository) History(employeeID string) ([]*salary.Period, error) {
	var rows []*salaryDatamodel.SalaryPeriod
	err := r.db.Where("employee_id = ?", employeeID).
		Order("effective_from ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	periods := make([]*salary.Period, len(rows))
	for i, row := range rows {
		periods[i] = fromDataModel(row)
	}
	return periods, nil
}

func toDataModel(p *salary.Period) *salaryDatamodel.SalaryPeriod {
	return &salaryDatamodel.SalaryPeriod{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		EffectiveFrom: p.EffectiveFrom,
		EffectiveTo:   p.EffectiveTo,
		Reason:        p.Reason,
		CreatedAt:     p.CreatedAt,
	}
}

func fromDataModel(row *salaryDatamodel.SalaryPeriod) *salary.Period {
	return &salary.Period{
		ID:            row.ID,
		EmployeeID:    row.EmployeeID,
		Amount:        row.Amount,
		Currency:      row.Currency,
		EffectiveFrom: row.EffectiveFrom,
		EffectiveTo:   row.EffectiveTo,
		Reason:        row.Reason,
		CreatedAt:     row.CreatedAt,
	}
}
