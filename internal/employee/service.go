package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/clock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/events"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/keylock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/salary"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/shift"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const recentAuditLimit = 10

// Repository persists employee records. GetByID returns (nil, nil) when no
// record exists so callers can distinguish absence from storage failure.
type Repository interface {
	Create(rec *Record) error
	GetByID(id string) (*Record, error)
	List(includeDeleted bool, limit, offset int) ([]*Record, error)
	Update(rec *Record) error
	MarkPayrollStarted(id string) error
}

// Service is the single entry point for employee mutations. Every mutating
// call runs under the target employee's lock and returns a fully hydrated
// View, so callers observe the applied state without a second read.
type Service struct {
	repo      Repository
	lifecycle *Lifecycle
	salaries  *salary.Ledger
	trail     *audit.Trail
	payments  *payroll.Ledger
	shifts    *shift.Schedule
	locks     *keylock.KeyLock
	clock     clock.Clock
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	lifecycle *Lifecycle,
	salaries *salary.Ledger,
	trail *audit.Trail,
	payments *payroll.Ledger,
	shifts *shift.Schedule,
	locks *keylock.KeyLock,
	clk clock.Clock,
	bus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		lifecycle: lifecycle,
		salaries:  salaries,
		trail:     trail,
		payments:  payments,
		shifts:    shifts,
		locks:     locks,
		clock:     clk,
		bus:       bus,
		logger:    logger,
	}
}

// CreateEmployee hires an employee: the record starts active, the initial
// salary period opens at the joining date, and the hire lands in the trail.
func (s *Service) CreateEmployee(dto CreateEmployeeDTO, actor internal.Actor) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec := &Record{
		ID:               uuid.New().String(),
		Name:             dto.Name,
		Phone:            dto.Phone,
		Email:            dto.Email,
		EmergencyContact: dto.EmergencyContact,
		Status:           StatusActive,
		EmploymentType:   dto.EmploymentType,
		Currency:         dto.Currency,
		Salary:           dto.Salary,
		DateOfJoining:    dto.DateOfJoining,
		Notes:            dto.Notes,
		AvatarRef:        dto.AvatarRef,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, d := range dto.Documents {
		rec.Documents = append(rec.Documents, Document{
			ID:         uuid.New().String(),
			TypeLabel:  d.TypeLabel,
			ContentRef: d.ContentRef,
			UploadedAt: now,
		})
	}

	if err := s.repo.Create(rec); err != nil {
		s.logger.Error("failed to create employee", "error", err, "name", dto.Name)
		return nil, err
	}

	if _, err := s.salaries.OpenPeriod(rec.ID, dto.Salary, dto.Currency, dto.DateOfJoining, "initial compensation"); err != nil {
		return nil, err
	}

	entry := audit.NewEntry(rec.ID, audit.ActionCreated, actor)
	entry.CreatedAt = now
	if err := s.trail.Append(entry); err != nil {
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", rec.ID, "actor_id", actor.ID)
	return s.buildView(rec)
}

// UpdateEmployee applies a sparse patch to the mutable profile fields.
// DateOfJoining is immutable once payroll has started.
func (s *Service) UpdateEmployee(id string, dto UpdateEmployeeDTO, actor internal.Actor) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var view *View
	err := s.locks.Do(id, func() error {
		rec, err := s.mustGet(id)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		prev := *rec
		diff := audit.Diff{}

		if dto.Name != nil && *dto.Name != rec.Name {
			diff["name"] = audit.FieldChange{Before: rec.Name, After: *dto.Name}
			rec.Name = *dto.Name
		}
		if dto.Phone != nil && *dto.Phone != rec.Phone {
			diff["phone"] = audit.FieldChange{Before: rec.Phone, After: *dto.Phone}
			rec.Phone = *dto.Phone
		}
		if dto.Email != nil {
			diff["email"] = audit.FieldChange{Before: strOrNil(rec.Email), After: *dto.Email}
			rec.Email = dto.Email
		}
		if dto.EmergencyContact != nil {
			diff["emergency_contact"] = audit.FieldChange{Before: strOrNil(rec.EmergencyContact), After: *dto.EmergencyContact}
			rec.EmergencyContact = dto.EmergencyContact
		}
		if dto.EmploymentType != nil && *dto.EmploymentType != rec.EmploymentType {
			diff["employment_type"] = audit.FieldChange{Before: rec.EmploymentType, After: *dto.EmploymentType}
			rec.EmploymentType = *dto.EmploymentType
		}
		if dto.DateOfJoining != nil && !dto.DateOfJoining.Equal(rec.DateOfJoining) {
			if rec.JoiningDateLocked() {
				return internal.NewPreconditionFailedError(
					"date_of_joining cannot change after payroll has started",
					internal.ErrCodeJoiningDateImmutable)
			}
			diff["date_of_joining"] = audit.FieldChange{
				Before: rec.DateOfJoining.Format("2006-01-02"),
				After:  dto.DateOfJoining.Format("2006-01-02"),
			}
			rec.DateOfJoining = *dto.DateOfJoining
		}
		if dto.Notes != nil && *dto.Notes != rec.Notes {
			diff["notes"] = audit.FieldChange{Before: rec.Notes, After: *dto.Notes}
			rec.Notes = *dto.Notes
		}
		if dto.AvatarRef != nil {
			diff["avatar_ref"] = audit.FieldChange{Before: strOrNil(rec.AvatarRef), After: *dto.AvatarRef}
			rec.AvatarRef = dto.AvatarRef
		}
		if dto.Documents != nil {
			docs := make([]Document, len(dto.Documents))
			for i, d := range dto.Documents {
				docs[i] = Document{
					ID:         uuid.New().String(),
					TypeLabel:  d.TypeLabel,
					ContentRef: d.ContentRef,
					UploadedAt: now,
				}
			}
			diff["documents"] = audit.FieldChange{Before: len(rec.Documents), After: len(docs)}
			rec.Documents = docs
		}

		if len(diff) == 0 {
			view, err = s.buildView(rec)
			return err
		}

		rec.UpdatedAt = now
		if err := s.repo.Update(rec); err != nil {
			s.logger.Error("failed to update employee", "error", err, "employee_id", id)
			return err
		}

		entry := audit.NewEntry(rec.ID, audit.ActionUpdated, actor).WithDiff(diff)
		entry.CreatedAt = now
		if err := s.trail.Append(entry); err != nil {
			// keep record and trail consistent: write the pre-image back
			if rbErr := s.repo.Update(&prev); rbErr != nil {
				s.logger.Error("rollback after audit failure also failed",
					"error", rbErr, "employee_id", id)
			}
			return err
		}

		view, err = s.buildView(rec)
		return err
	})
	return view, err
}

// SetStatus runs the status state machine for the employee.
func (s *Service) SetStatus(id string, dto SetStatusDTO, actor internal.Actor) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var view *View
	err := s.locks.Do(id, func() error {
		rec, err := s.mustGet(id)
		if err != nil {
			return err
		}
		wasTerminated := rec.IsTerminated()
		if err := s.lifecycle.SetStatus(rec, dto.Status, actor); err != nil {
			return err
		}
		if !wasTerminated && rec.IsTerminated() {
			s.publishTerminated(rec, actor)
		}
		view, err = s.buildView(rec)
		return err
	})
	return view, err
}

// SetDateOfLeaving sets the leaving date, forcing termination when the
// record is still active.
func (s *Service) SetDateOfLeaving(id string, dto SetLeavingDateDTO, actor internal.Actor) (*View, error) {
	date, appErr := dto.Parse()
	if appErr != nil {
		return nil, appErr
	}

	var view *View
	err := s.locks.Do(id, func() error {
		rec, err := s.mustGet(id)
		if err != nil {
			return err
		}
		wasTerminated := rec.IsTerminated()
		if err := s.lifecycle.SetDateOfLeaving(rec, date, actor); err != nil {
			return err
		}
		if !wasTerminated && rec.IsTerminated() {
			s.publishTerminated(rec, actor)
		}
		view, err = s.buildView(rec)
		return err
	})
	return view, err
}

// SoftDelete hides the record. Deleting twice is a successful no-op.
func (s *Service) SoftDelete(id string, dto SoftDeleteDTO, actor internal.Actor) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var view *View
	err := s.locks.Do(id, func() error {
		rec, err := s.mustGet(id)
		if err != nil {
			return err
		}
		if err := s.lifecycle.SoftDelete(rec, dto.Reason, actor); err != nil {
			return err
		}
		view, err = s.buildView(rec)
		return err
	})
	return view, err
}

// Restore reverses a soft delete.
func (s *Service) Restore(id string, actor internal.Actor) (*View, error) {
	var view *View
	err := s.locks.Do(id, func() error {
		rec, err := s.mustGet(id)
		if err != nil {
			return err
		}
		if err := s.lifecycle.Restore(rec, actor); err != nil {
			return err
		}
		view, err = s.buildView(rec)
		return err
	})
	return view, err
}

// UpdateCompensation rotates the salary period when amount or currency
// actually changed.
func (s *Service) UpdateCompensation(id string, dto CompensationDTO, actor internal.Actor) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var view *View
	err := s.locks.Do(id, func() error {
		rec, err := s.mustGet(id)
		if err != nil {
			return err
		}
		if err := s.lifecycle.UpdateCompensation(rec, dto.Amount, dto.Currency, dto.Reason, actor); err != nil {
			return err
		}
		view, err = s.buildView(rec)
		return err
	})
	return view, err
}

// ReplaceShifts swaps the employee's whole weekly schedule.
func (s *Service) ReplaceShifts(id string, dto ReplaceShiftsDTO, actor internal.Actor) (*View, error) {
	defs := dto.Definitions()
	for _, d := range defs {
		d.EmployeeID = id
	}

	var view *View
	err := s.locks.Do(id, func() error {
		rec, err := s.mustGet(id)
		if err != nil {
			return err
		}
		if err := s.shifts.Replace(id, defs); err != nil {
			return err
		}

		now := s.clock.Now()
		entry := audit.NewEntry(id, audit.ActionShiftsReplaced, actor).
			WithDiff(audit.Diff{"shift_count": {After: len(defs)}})
		entry.CreatedAt = now
		if err := s.trail.Append(entry); err != nil {
			return err
		}

		view, err = s.buildView(rec)
		return err
	})
	return view, err
}

// OpenPeriod opens a payment attempt for the period and marks the record's
// payroll as started, which freezes date_of_joining.
func (s *Service) OpenPeriod(id string, periodStart time.Time, amount decimal.Decimal, currency string, dueDate time.Time) (*payroll.Attempt, error) {
	attempt, err := s.payments.OpenPeriod(id, periodStart, amount, currency, dueDate)
	if err != nil {
		// A duplicate means an attempt already exists, so the flag must be
		// set; re-writing it here lets a retried call repair a flag lost to
		// an earlier storage failure.
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeDuplicatePayPeriod {
			if mpErr := s.repo.MarkPayrollStarted(id); mpErr != nil {
				s.logger.Error("failed to mark payroll started", "error", mpErr, "employee_id", id)
			}
		}
		return nil, err
	}

	// The flag enforces joining-date immutability; losing it silently would
	// let a later update move date_of_joining after payroll has started.
	if err := s.repo.MarkPayrollStarted(id); err != nil {
		s.logger.Error("failed to mark payroll started", "error", err, "employee_id", id)
		return nil, err
	}
	return attempt, nil
}

func (s *Service) MarkPaid(attemptID string, attemptedAt time.Time) (*payroll.Attempt, error) {
	return s.payments.MarkPaid(attemptID, attemptedAt)
}

func (s *Service) MarkFailed(attemptID string, attemptedAt time.Time, reason string) (*payroll.Attempt, error) {
	return s.payments.MarkFailed(attemptID, attemptedAt, reason)
}

func (s *Service) Retry(attemptID string, actor internal.Actor) (*payroll.Attempt, error) {
	return s.payments.Retry(attemptID, actor)
}

// GetEmployee returns the hydrated view, soft-deleted records included.
func (s *Service) GetEmployee(id string) (*View, error) {
	rec, err := s.mustGet(id)
	if err != nil {
		return nil, err
	}
	return s.buildView(rec)
}

func (s *Service) ListEmployees(includeDeleted bool, limit, offset int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(includeDeleted, limit, offset)
}

func (s *Service) ListAudit(id string, limit int, beforeSeq int64) ([]*audit.Entry, error) {
	if _, err := s.mustGet(id); err != nil {
		return nil, err
	}
	return s.trail.ListFor(id, limit, beforeSeq)
}

func (s *Service) ListSalaryHistory(id string) ([]*salary.Period, error) {
	if _, err := s.mustGet(id); err != nil {
		return nil, err
	}
	return s.salaries.History(id)
}

func (s *Service) ListPayments(id string) ([]*payroll.Attempt, error) {
	if _, err := s.mustGet(id); err != nil {
		return nil, err
	}
	return s.payments.ListFor(id)
}

// terminationGate adapts the repository to the payroll ledger's view of an
// employee. Backing it with the repository rather than the service breaks
// the construction cycle between the two.
type terminationGate struct {
	repo Repository
}

func NewTerminationGate(repo Repository) payroll.EmployeeGate {
	return &terminationGate{repo: repo}
}

func (g *terminationGate) TerminationInfo(employeeID string) (bool, *time.Time, error) {
	rec, err := g.repo.GetByID(employeeID)
	if err != nil {
		return false, nil, err
	}
	if rec == nil {
		return false, nil, internal.ErrEmployeeNotFound
	}
	return rec.IsTerminated(), rec.DateOfLeaving, nil
}

func (s *Service) mustGet(id string) (*Record, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return rec, nil
}

func (s *Service) publishTerminated(rec *Record, actor internal.Actor) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(context.Background(), events.NewEmployeeTerminatedEvent(rec.ID, rec.DateOfLeaving, actor.ID))
}

// buildView hydrates the aggregate: current salary period, the most recent
// audit entries, this month's payment attempt and the shift schedule.
func (s *Service) buildView(rec *Record) (*View, error) {
	current, err := s.salaries.CurrentPeriod(rec.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.trail.ListFor(rec.ID, recentAuditLimit, 0)
	if err != nil {
		return nil, err
	}
	attempt, err := s.payments.AttemptForPeriod(rec.ID, firstOfMonth(s.clock.Now()))
	if err != nil {
		return nil, err
	}
	defs, err := s.shifts.ListFor(rec.ID)
	if err != nil {
		return nil, err
	}
	return &View{
		Record:         rec,
		CurrentSalary:  current,
		RecentAudit:    recent,
		CurrentPayment: attempt,
		Shifts:         defs,
	}, nil
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
