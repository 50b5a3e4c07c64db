package payroll

import (
	"context"
	"log/slog"
	"time"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/clock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/events"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/keylock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the data access methods for payment attempts. Attempts
// are never deleted.
type Repository interface {
	Create(attempt *Attempt) error
	GetByID(id string) (*Attempt, error)
	GetByEmployeeAndPeriod(employeeID string, periodStart time.Time) (*Attempt, error)
	ListFor(employeeID string) ([]*Attempt, error)
	Update(attempt *Attempt) error
}

// EmployeeGate is the narrow view of the employee record the ledger needs:
// whether the employee is terminated and since when.
type EmployeeGate interface {
	TerminationInfo(employeeID string) (terminated bool, effective *time.Time, err error)
}

// Ledger tracks one payment attempt per employee per pay period. It owns no
// retry cadence; retries are explicit caller requests.
type Ledger struct {
	repo   Repository
	gate   EmployeeGate
	trail  *audit.Trail
	locks  *keylock.KeyLock
	clock  clock.Clock
	bus    *events.EventBus
	logger *slog.Logger
}

func NewLedger(repo Repository, gate EmployeeGate, trail *audit.Trail, locks *keylock.KeyLock, clk clock.Clock, bus *events.EventBus, logger *slog.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		gate:   gate,
		trail:  trail,
		locks:  locks,
		clock:  clk,
		bus:    bus,
		logger: logger,
	}
}

// OpenPeriod creates the pending attempt for one pay period. Conflicts when
// the period already has an attempt, or when the employee was terminated
// before the period starts.
func (l *Ledger) OpenPeriod(employeeID string, periodStart time.Time, amount decimal.Decimal, currency string, dueDate time.Time) (*Attempt, error) {
	var attempt *Attempt

	err := l.locks.Do(employeeID, func() error {
		terminated, effective, err := l.gate.TerminationInfo(employeeID)
		if err != nil {
			return err
		}
		if terminated && (effective == nil || periodStart.After(*effective)) {
			l.logger.Warn("refusing payroll period after termination",
				"employee_id", employeeID,
				"period_start", periodStart)
			return internal.ErrPostTermination
		}

		existing, err := l.repo.GetByEmployeeAndPeriod(employeeID, periodStart)
		if err != nil {
			return err
		}
		if existing != nil {
			return internal.ErrDuplicatePayPeriod
		}

		now := l.clock.Now()
		attempt = &Attempt{
			ID:          uuid.New().String(),
			EmployeeID:  employeeID,
			PeriodStart: periodStart,
			Amount:      amount,
			Currency:    currency,
			Status:      StatusPending,
			DueDate:     dueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := l.repo.Create(attempt); err != nil {
			l.logger.Error("failed to create payment attempt", "error", err, "employee_id", employeeID)
			return err
		}

		entry := audit.NewEntry(employeeID, audit.ActionPayPeriodOpened, internal.SystemActor).
			WithDiff(audit.Diff{
				"period_start": {Before: nil, After: periodStart.Format("2006-01-02")},
				"amount":       {Before: nil, After: amount.String()},
			})
		entry.CreatedAt = now
		return l.trail.Append(entry)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("payroll period opened",
		"employee_id", employeeID,
		"attempt_id", attempt.ID,
		"period_start", periodStart,
		"amount", amount.String())
	return attempt, nil
}

// MarkPaid settles a pending attempt. A failed attempt needs an explicit
// Retry first.
func (l *Ledger) MarkPaid(attemptID string, attemptedAt time.Time) (*Attempt, error) {
	return l.transition(attemptID, func(a *Attempt, now time.Time) (*audit.Entry, error) {
		if !a.CanBePaid() {
			l.logger.Warn("illegal markPaid transition", "attempt_id", a.ID, "status", a.Status)
			return nil, internal.NewInvalidTransitionError(
				"attempt can only be paid from pending", internal.ErrCodeIllegalPaymentMove)
		}
		before := a.Status
		a.MarkPaid(attemptedAt)
		return audit.NewEntry(a.EmployeeID, audit.ActionPaymentPaid, internal.SystemActor).
			WithDiff(audit.Diff{"status": {Before: before, After: a.Status}}), nil
	})
}

// MarkFailed records a failed attempt with its reason.
func (l *Ledger) MarkFailed(attemptID string, attemptedAt time.Time, reason string) (*Attempt, error) {
	attempt, err := l.transition(attemptID, func(a *Attempt, now time.Time) (*audit.Entry, error) {
		if !a.CanBeFailed() {
			l.logger.Warn("illegal markFailed transition", "attempt_id", a.ID, "status", a.Status)
			return nil, internal.NewInvalidTransitionError(
				"attempt can only fail from pending", internal.ErrCodeIllegalPaymentMove)
		}
		before := a.Status
		a.MarkFailed(attemptedAt, reason)
		note := reason
		return audit.NewEntry(a.EmployeeID, audit.ActionPaymentFailed, internal.SystemActor).
			WithNote(note).
			WithDiff(audit.Diff{"status": {Before: before, After: a.Status}}), nil
	})
	if err != nil {
		return nil, err
	}

	if l.bus != nil {
		_ = l.bus.Publish(context.Background(),
			events.NewPaymentFailedEvent(attempt.ID, attempt.EmployeeID, reason, attempt.RetryCount))
	}
	return attempt, nil
}

// Retry resets a failed attempt to pending. Calling it on a pending or paid
// attempt is a successful no-op, so duplicate clicks on the console's retry
// button never error and never double-audit.
func (l *Ledger) Retry(attemptID string, actor internal.Actor) (*Attempt, error) {
	var retried bool
	attempt, err := l.transition(attemptID, func(a *Attempt, now time.Time) (*audit.Entry, error) {
		if !a.CanBeRetried() {
			return nil, nil
		}
		retried = true
		before := a.Status
		a.ResetForRetry(now)
		return audit.NewEntry(a.EmployeeID, audit.ActionPaymentRetried, actor).
			WithDiff(audit.Diff{"status": {Before: before, After: a.Status}}), nil
	})
	if err != nil {
		return nil, err
	}

	if retried {
		l.logger.Info("payment attempt reset for retry",
			"attempt_id", attempt.ID,
			"employee_id", attempt.EmployeeID,
			"actor_id", actor.ID,
			"retry_count", attempt.RetryCount)
	}
	return attempt, nil
}

func (l *Ledger) GetAttempt(attemptID string) (*Attempt, error) {
	attempt, err := l.repo.GetByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, internal.ErrAttemptNotFound
	}
	return attempt, nil
}

func (l *Ledger) ListFor(employeeID string) ([]*Attempt, error) {
	return l.repo.ListFor(employeeID)
}

// AttemptForPeriod returns the attempt covering periodStart, or nil.
func (l *Ledger) AttemptForPeriod(employeeID string, periodStart time.Time) (*Attempt, error) {
	return l.repo.GetByEmployeeAndPeriod(employeeID, periodStart)
}

// transition runs fn on the attempt under the owning employee's lock. When fn
// returns a nil entry and nil error the attempt is left untouched (no-op).
// Ledger mutation and audit append commit together or not at all.
func (l *Ledger) transition(attemptID string, fn func(a *Attempt, now time.Time) (*audit.Entry, error)) (*Attempt, error) {
	// read outside the lock only to learn the owning employee
	peek, err := l.repo.GetByID(attemptID)
	if err != nil {
		return nil, err
	}
	if peek == nil {
		return nil, internal.ErrAttemptNotFound
	}

	var result *Attempt
	err = l.locks.Do(peek.EmployeeID, func() error {
		attempt, err := l.repo.GetByID(attemptID)
		if err != nil {
			return err
		}
		if attempt == nil {
			return internal.ErrAttemptNotFound
		}

		now := l.clock.Now()
		prev := *attempt
		entry, err := fn(attempt, now)
		if err != nil {
			return err
		}
		if entry == nil {
			result = attempt
			return nil
		}

		if err := l.repo.Update(attempt); err != nil {
			l.logger.Error("failed to update payment attempt", "error", err, "attempt_id", attemptID)
			return err
		}
		entry.CreatedAt = now
		if err := l.trail.Append(entry); err != nil {
			// keep ledger and trail consistent: roll the attempt back
			if rbErr := l.repo.Update(&prev); rbErr != nil {
				l.logger.Error("rollback after audit failure also failed",
					"error", rbErr, "attempt_id", attemptID)
			}
			return err
		}

		result = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
