package salary

import (
	"log/slog"
	"time"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the data access methods for salary periods.
type Repository interface {
	Create(period *Period) error
	CloseOpen(employeeID string, effectiveTo time.Time) (bool, error)
	CurrentPeriod(employeeID string) (*Period, error)
	History(employeeID string) ([]*Period, error)
}

// Ledger maintains the non-overlapping, time-ordered salary history per
// employee. Callers (the lifecycle) always close-then-open atomically under
// the employee's lock.
type Ledger struct {
	repo   Repository
	clock  clock.Clock
	logger *slog.Logger
}

func NewLedger(repo Repository, clk clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// OpenPeriod starts a new open period. Fails with a conflict when an open
// period already exists; the caller must close it first.
func (l *Ledger) OpenPeriod(employeeID string, amount decimal.Decimal, currency string, effectiveFrom time.Time, reason string) (*Period, error) {
	current, err := l.repo.CurrentPeriod(employeeID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		l.logger.Warn("open salary period already exists",
			"employee_id", employeeID,
			"period_id", current.ID)
		return nil, internal.ErrOpenPeriodExists
	}

	period := &Period{
		ID:            uuid.New().String(),
		EmployeeID:    employeeID,
		Amount:        amount,
		Currency:      currency,
		EffectiveFrom: effectiveFrom,
		Reason:        reason,
		CreatedAt:     l.clock.Now(),
	}

	if err := l.checkNoOverlap(employeeID, period); err != nil {
		return nil, err
	}

	if err := l.repo.Create(period); err != nil {
		l.logger.Error("failed to open salary period", "error", err, "employee_id", employeeID)
		return nil, err
	}

	l.logger.Info("salary period opened",
		"employee_id", employeeID,
		"period_id", period.ID,
		"amount", amount.String(),
		"currency", currency)
	return period, nil
}

// CloseOpenPeriod is a no-op when no open period exists.
func (l *Ledger) CloseOpenPeriod(employeeID string, effectiveTo time.Time) error {
	closed, err := l.repo.CloseOpen(employeeID, effectiveTo)
	if err != nil {
		l.logger.Error("failed to close salary period", "error", err, "employee_id", employeeID)
		return err
	}
	if closed {
		l.logger.Info("salary period closed", "employee_id", employeeID, "effective_to", effectiveTo)
	}
	return nil
}

func (l *Ledger) CurrentPeriod(employeeID string) (*Period, error) {
	return l.repo.CurrentPeriod(employeeID)
}

// History returns all periods oldest-first.
func (l *Ledger) History(employeeID string) ([]*Period, error) {
	return l.repo.History(employeeID)
}

// checkNoOverlap runs the defensive pairwise-overlap invariant before a
// write. Unreachable through the public API, but a violation here means the
// ledger is corrupt and the write must not proceed.
func (l *Ledger) checkNoOverlap(employeeID string, candidate *Period) error {
	existing, err := l.repo.History(employeeID)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.Overlaps(candidate) {
			l.logger.Error("salary period overlap detected",
				"employee_id", employeeID,
				"existing_period", p.ID,
				"candidate_from", candidate.EffectiveFrom)
			return internal.NewInternalError("salary period overlap invariant violated", nil).
				WithDetails(map[string]string{"existing_period": p.ID})
		}
	}
	return nil
}
