package employee

import (
	"log/slog"
	"time"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/clock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/common/validation"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/salary"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lifecycle is the status state machine. It owns every status-affecting
// transition and is the only writer of the status/leaving-date/soft-delete
// fields. All methods run under the owning employee's lock (the service
// acquires it) and either fully apply their effect plus audit entry or leave
// the record untouched.
type Lifecycle struct {
	repo     Repository
	salaries *salary.Ledger
	trail    *audit.Trail
	clock    clock.Clock
	logger   *slog.Logger
}

func NewLifecycle(repo Repository, salaries *salary.Ledger, trail *audit.Trail, clk clock.Clock, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		repo:     repo,
		salaries: salaries,
		trail:    trail,
		clock:    clk,
		logger:   logger,
	}
}

// SetStatus moves the record to newStatus. While a leaving date is set only
// suspended and terminated are reachable. Terminating closes the open salary
// period.
func (lc *Lifecycle) SetStatus(rec *Record, newStatus string, actor internal.Actor) error {
	if !IsValidStatus(newStatus) {
		return internal.NewValidationFieldError("status", "unknown status", internal.ErrCodeInvalidStatus)
	}
	if rec.DateOfLeaving != nil && !StatusAllowsLeavingDate(newStatus) {
		lc.logger.Warn("rejected status change with leaving date set",
			"employee_id", rec.ID,
			"new_status", newStatus,
			"date_of_leaving", rec.DateOfLeaving)
		return internal.ErrLeavingDateSet
	}
	if rec.Status == newStatus {
		return nil
	}

	now := lc.clock.Now()
	prev := *rec
	before := rec.Status
	rec.Status = newStatus
	rec.UpdatedAt = now

	entry := audit.NewEntry(rec.ID, audit.ActionStatusChanged, actor).
		WithDiff(audit.Diff{"status": {Before: before, After: newStatus}})
	entry.CreatedAt = now

	if err := lc.commit(rec, prev, entry); err != nil {
		return err
	}

	if newStatus == StatusTerminated {
		if err := lc.salaries.CloseOpenPeriod(rec.ID, now); err != nil {
			lc.logger.Error("failed to close salary period on termination",
				"error", err, "employee_id", rec.ID)
			return err
		}
	}

	lc.logger.Info("employee status changed",
		"employee_id", rec.ID,
		"from", before,
		"to", newStatus,
		"actor_id", actor.ID)
	return nil
}

// SetDateOfLeaving sets the leaving date. Setting it while the record is
// neither suspended nor terminated also forces termination; both facts land
// in the trail under one correlation id.
func (lc *Lifecycle) SetDateOfLeaving(rec *Record, date time.Time, actor internal.Actor) error {
	now := lc.clock.Now()
	correlation := uuid.New().String()

	prev := *rec
	beforeStatus := rec.Status
	var beforeLeaving interface{}
	if rec.DateOfLeaving != nil {
		beforeLeaving = rec.DateOfLeaving.Format("2006-01-02")
	}

	rec.DateOfLeaving = &date
	forceTerminate := !StatusAllowsLeavingDate(beforeStatus)
	if forceTerminate {
		rec.Status = StatusTerminated
	}
	rec.UpdatedAt = now

	leavingEntry := audit.NewEntry(rec.ID, audit.ActionLeavingDateSet, actor).
		WithDiff(audit.Diff{"date_of_leaving": {Before: beforeLeaving, After: date.Format("2006-01-02")}}).
		WithCorrelationID(correlation)
	leavingEntry.CreatedAt = now

	entries := []*audit.Entry{leavingEntry}
	if forceTerminate {
		statusEntry := audit.NewEntry(rec.ID, audit.ActionStatusChanged, actor).
			WithDiff(audit.Diff{"status": {Before: beforeStatus, After: StatusTerminated}}).
			WithCorrelationID(correlation)
		statusEntry.CreatedAt = now
		entries = append(entries, statusEntry)
	}

	if err := lc.commit(rec, prev, entries...); err != nil {
		return err
	}

	if forceTerminate {
		if err := lc.salaries.CloseOpenPeriod(rec.ID, now); err != nil {
			lc.logger.Error("failed to close salary period on termination",
				"error", err, "employee_id", rec.ID)
			return err
		}
	}

	lc.logger.Info("leaving date set",
		"employee_id", rec.ID,
		"date_of_leaving", date.Format("2006-01-02"),
		"forced_termination", forceTerminate,
		"actor_id", actor.ID)
	return nil
}

// SoftDelete hides the record behind the isDeleted flag. The reason is
// mandatory and lands in the trail. Deleting an already-deleted record is a
// successful no-op with no extra audit entry.
func (lc *Lifecycle) SoftDelete(rec *Record, reason string, actor internal.Actor) error {
	if err := validation.ValidateSoftDeleteReason(reason); err != nil {
		return err
	}
	if rec.IsDeleted {
		return nil
	}

	now := lc.clock.Now()
	prev := *rec
	rec.IsDeleted = true
	rec.DeleteReason = &reason
	rec.UpdatedAt = now

	entry := audit.NewEntry(rec.ID, audit.ActionSoftDeleted, actor).WithNote(reason)
	entry.CreatedAt = now

	if err := lc.commit(rec, prev, entry); err != nil {
		return err
	}

	lc.logger.Info("employee soft deleted", "employee_id", rec.ID, "actor_id", actor.ID)
	return nil
}

// Restore reverses a soft delete. No reason required; the asymmetry with
// SoftDelete is intentional.
func (lc *Lifecycle) Restore(rec *Record, actor internal.Actor) error {
	if !rec.IsDeleted {
		return nil
	}

	now := lc.clock.Now()
	prev := *rec
	rec.IsDeleted = false
	rec.DeleteReason = nil
	rec.UpdatedAt = now

	entry := audit.NewEntry(rec.ID, audit.ActionRestored, actor)
	entry.CreatedAt = now

	if err := lc.commit(rec, prev, entry); err != nil {
		return err
	}

	lc.logger.Info("employee restored", "employee_id", rec.ID, "actor_id", actor.ID)
	return nil
}

// UpdateCompensation closes the open salary period and opens a new one, but
// only when the amount or currency actually changed.
func (lc *Lifecycle) UpdateCompensation(rec *Record, amount decimal.Decimal, currency string, reason string, actor internal.Actor) error {
	if amount.Equal(rec.Salary) && currency == rec.Currency {
		lc.logger.Debug("compensation unchanged, skipping", "employee_id", rec.ID)
		return nil
	}

	now := lc.clock.Now()
	prev := *rec
	beforeAmount := rec.Salary
	beforeCurrency := rec.Currency

	if err := lc.salaries.CloseOpenPeriod(rec.ID, now); err != nil {
		return err
	}
	if _, err := lc.salaries.OpenPeriod(rec.ID, amount, currency, now, reason); err != nil {
		return err
	}

	rec.Salary = amount
	rec.Currency = currency
	rec.UpdatedAt = now

	entry := audit.NewEntry(rec.ID, audit.ActionCompensationChanged, actor).
		WithNote(reason).
		WithDiff(audit.Diff{
			"salary":   {Before: beforeAmount.String(), After: amount.String()},
			"currency": {Before: beforeCurrency, After: currency},
		})
	entry.CreatedAt = now

	if err := lc.commit(rec, prev, entry); err != nil {
		return err
	}

	lc.logger.Info("compensation updated",
		"employee_id", rec.ID,
		"amount", amount.String(),
		"currency", currency,
		"actor_id", actor.ID)
	return nil
}

// commit persists the record and appends the audit entries. When an append
// fails the pre-image is written back so record and trail stay consistent,
// and the caller's in-memory record is restored to match.
func (lc *Lifecycle) commit(rec *Record, prev Record, entries ...*audit.Entry) error {
	if err := lc.repo.Update(rec); err != nil {
		*rec = prev
		lc.logger.Error("failed to persist employee record", "error", err, "employee_id", prev.ID)
		return err
	}
	for _, entry := range entries {
		if err := lc.trail.Append(entry); err != nil {
			if rbErr := lc.repo.Update(&prev); rbErr != nil {
				lc.logger.Error("rollback after audit failure also failed",
					"error", rbErr, "employee_id", prev.ID)
			}
			*rec = prev
			return err
		}
	}
	return nil
}
