package shift

import (
	"log/slog"

	"github.com/google/uuid"
)

// Repository defines the data access methods for shift definitions.
type Repository interface {
	ReplaceAll(employeeID string, defs []*Definition) error
	ListFor(employeeID string) ([]*Definition, error)
}

// Schedule holds the recurring weekly shift set per employee. Edits replace
// the whole schedule under the employee's lock.
type Schedule struct {
	repo   Repository
	logger *slog.Logger
}

func NewSchedule(repo Repository, logger *slog.Logger) *Schedule {
	return &Schedule{
		repo:   repo,
		logger: logger,
	}
}

func (s *Schedule) Replace(employeeID string, defs []*Definition) error {
	if err := ValidateAll(defs); err != nil {
		return err
	}

	for _, d := range defs {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.EmployeeID = employeeID
	}

	if err := s.repo.ReplaceAll(employeeID, defs); err != nil {
		s.logger.Error("failed to replace shift schedule", "error", err, "employee_id", employeeID)
		return err
	}

	s.logger.Info("shift schedule replaced", "employee_id", employeeID, "shift_count", len(defs))
	return nil
}

func (s *Schedule) ListFor(employeeID string) ([]*Definition, error) {
	return s.repo.ListFor(employeeID)
}
