package employee_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/employee"
)

var _ = Describe("Lifecycle", func() {
	var (
		env *testEnv
		id  string
	)

	BeforeEach(func() {
		env = newTestEnv()
		view, err := env.service.CreateEmployee(validCreateDTO(), testActor)
		Expect(err).ToNot(HaveOccurred())
		id = view.Record.ID
	})

	Describe("SetStatus", func() {
		It("should move the record and audit the transition", func() {
			view, err := env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusSuspended}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.Status).To(Equal(employee.StatusSuspended))

			changes := env.trailRepo.entriesFor(id, audit.ActionStatusChanged)
			Expect(changes).To(HaveLen(1))
			Expect(string(changes[0].Diff)).To(ContainSubstring(employee.StatusActive))
			Expect(string(changes[0].Diff)).To(ContainSubstring(employee.StatusSuspended))
		})

		It("should reject an unknown status", func() {
			_, err := env.service.SetStatus(id, employee.SetStatusDTO{Status: "retired"}, testActor)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should not audit a transition to the same status", func() {
			_, err := env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusActive}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(env.trailRepo.entriesFor(id, audit.ActionStatusChanged)).To(BeEmpty())
		})

		It("should close the open salary period on termination", func() {
			_, err := env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusTerminated}, testActor)
			Expect(err).ToNot(HaveOccurred())

			current, salErr := env.salaryRepo.CurrentPeriod(id)
			Expect(salErr).ToNot(HaveOccurred())
			Expect(current).To(BeNil())

			history, salErr := env.salaryRepo.History(id)
			Expect(salErr).ToNot(HaveOccurred())
			Expect(history).To(HaveLen(1))
			Expect(history[0].EffectiveTo).ToNot(BeNil())
		})

		It("should refuse activation while a leaving date is set", func() {
			_, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "2025-04-30"}, testActor)
			Expect(err).ToNot(HaveOccurred())

			_, err = env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusActive}, testActor)

			Expect(err).To(Equal(internal.ErrLeavingDateSet))
		})

		It("should refuse moving to on leave while a leaving date is set", func() {
			_, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "2025-04-30"}, testActor)
			Expect(err).ToNot(HaveOccurred())

			_, err = env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusOnLeave}, testActor)

			Expect(err).To(Equal(internal.ErrLeavingDateSet))
		})

		It("should leave the stored record untouched when the audit append fails", func() {
			env.trailRepo.appendErr = errors.New("audit store down")

			_, err := env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusSuspended}, testActor)

			Expect(err).To(HaveOccurred())
			rec, repoErr := env.repo.GetByID(id)
			Expect(repoErr).ToNot(HaveOccurred())
			Expect(rec.Status).To(Equal(employee.StatusActive))
			Expect(env.trailRepo.entriesFor(id, audit.ActionStatusChanged)).To(BeEmpty())
		})
	})

	Describe("SetDateOfLeaving", func() {
		It("should force termination of an active record", func() {
			view, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "2025-04-30"}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.Status).To(Equal(employee.StatusTerminated))
			Expect(view.Record.DateOfLeaving).ToNot(BeNil())
			Expect(view.Record.DateOfLeaving.Format("2006-01-02")).To(Equal("2025-04-30"))
		})

		It("should record both facts under one correlation id", func() {
			_, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "2025-04-30"}, testActor)
			Expect(err).ToNot(HaveOccurred())

			leaving := env.trailRepo.entriesFor(id, audit.ActionLeavingDateSet)
			status := env.trailRepo.entriesFor(id, audit.ActionStatusChanged)
			Expect(leaving).To(HaveLen(1))
			Expect(status).To(HaveLen(1))
			Expect(leaving[0].CorrelationID).ToNot(BeNil())
			Expect(status[0].CorrelationID).ToNot(BeNil())
			Expect(*leaving[0].CorrelationID).To(Equal(*status[0].CorrelationID))
		})

		It("should force termination of an on-leave record", func() {
			_, err := env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusOnLeave}, testActor)
			Expect(err).ToNot(HaveOccurred())

			view, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "2025-06-01"}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.Status).To(Equal(employee.StatusTerminated))
			Expect(view.Record.DateOfLeaving).ToNot(BeNil())
		})

		It("should leave the stored record untouched when the audit append fails", func() {
			env.trailRepo.appendErr = errors.New("audit store down")

			_, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "2025-04-30"}, testActor)

			Expect(err).To(HaveOccurred())
			rec, repoErr := env.repo.GetByID(id)
			Expect(repoErr).ToNot(HaveOccurred())
			Expect(rec.Status).To(Equal(employee.StatusActive))
			Expect(rec.DateOfLeaving).To(BeNil())
		})

		It("should not force termination of a suspended record", func() {
			_, err := env.service.SetStatus(id, employee.SetStatusDTO{Status: employee.StatusSuspended}, testActor)
			Expect(err).ToNot(HaveOccurred())

			view, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "2025-04-30"}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.Status).To(Equal(employee.StatusSuspended))
			Expect(env.trailRepo.entriesFor(id, audit.ActionLeavingDateSet)).To(HaveLen(1))
		})

		It("should reject a malformed date", func() {
			_, err := env.service.SetDateOfLeaving(id, employee.SetLeavingDateDTO{Date: "30/04/2025"}, testActor)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidDate)))
		})
	})

	Describe("SoftDelete", func() {
		It("should hide the record with an audited reason", func() {
			reason := "duplicate record entered by mistake"

			view, err := env.service.SoftDelete(id, employee.SoftDeleteDTO{Reason: reason}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.IsDeleted).To(BeTrue())
			Expect(view.Record.DeleteReason).ToNot(BeNil())
			Expect(*view.Record.DeleteReason).To(Equal(reason))

			deleted := env.trailRepo.entriesFor(id, audit.ActionSoftDeleted)
			Expect(deleted).To(HaveLen(1))
			Expect(deleted[0].Note).ToNot(BeNil())
			Expect(*deleted[0].Note).To(Equal(reason))
		})

		It("should reject a reason that is too short", func() {
			_, err := env.service.SoftDelete(id, employee.SoftDeleteDTO{Reason: "typo"}, testActor)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeReasonTooShort)))

			rec, err := env.repo.GetByID(id)
			Expect(err).ToNot(HaveOccurred())
			Expect(rec.IsDeleted).To(BeFalse())
			Expect(env.trailRepo.entriesFor(id, audit.ActionSoftDeleted)).To(BeEmpty())
		})

		It("should treat a second delete as a no-op without a new audit entry", func() {
			reason := "duplicate record entered by mistake"
			_, err := env.service.SoftDelete(id, employee.SoftDeleteDTO{Reason: reason}, testActor)
			Expect(err).ToNot(HaveOccurred())

			view, err := env.service.SoftDelete(id, employee.SoftDeleteDTO{Reason: reason}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.IsDeleted).To(BeTrue())
			Expect(env.trailRepo.entriesFor(id, audit.ActionSoftDeleted)).To(HaveLen(1))
		})

		It("should leave the stored record untouched when the audit append fails", func() {
			env.trailRepo.appendErr = errors.New("audit store down")

			_, err := env.service.SoftDelete(id, employee.SoftDeleteDTO{
				Reason: "duplicate record entered by mistake",
			}, testActor)

			Expect(err).To(HaveOccurred())
			rec, repoErr := env.repo.GetByID(id)
			Expect(repoErr).ToNot(HaveOccurred())
			Expect(rec.IsDeleted).To(BeFalse())
			Expect(rec.DeleteReason).To(BeNil())
		})
	})

	Describe("Restore", func() {
		It("should reverse a soft delete and clear the reason", func() {
			_, err := env.service.SoftDelete(id, employee.SoftDeleteDTO{
				Reason: "duplicate record entered by mistake",
			}, testActor)
			Expect(err).ToNot(HaveOccurred())

			view, err := env.service.Restore(id, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.IsDeleted).To(BeFalse())
			Expect(view.Record.DeleteReason).To(BeNil())
			Expect(env.trailRepo.entriesFor(id, audit.ActionRestored)).To(HaveLen(1))
		})

		It("should treat restoring a live record as a no-op", func() {
			view, err := env.service.Restore(id, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.IsDeleted).To(BeFalse())
			Expect(env.trailRepo.entriesFor(id, audit.ActionRestored)).To(BeEmpty())
		})
	})

	Describe("UpdateCompensation", func() {
		It("should rotate the salary period and audit the change", func() {
			env.clock.Advance(30 * 24 * time.Hour)

			view, err := env.service.UpdateCompensation(id, employee.CompensationDTO{
				Amount:   decimal.NewFromInt(60000),
				Currency: "BDT",
				Reason:   "annual raise",
			}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Record.Salary).To(Equal(decimal.NewFromInt(60000)))
			Expect(view.CurrentSalary.Amount).To(Equal(decimal.NewFromInt(60000)))
			Expect(view.CurrentSalary.Reason).To(Equal("annual raise"))

			history, salErr := env.salaryRepo.History(id)
			Expect(salErr).ToNot(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].EffectiveTo).ToNot(BeNil())
			Expect(history[0].EffectiveTo.Equal(history[1].EffectiveFrom)).To(BeTrue())

			changes := env.trailRepo.entriesFor(id, audit.ActionCompensationChanged)
			Expect(changes).To(HaveLen(1))
			Expect(string(changes[0].Diff)).To(ContainSubstring("salary"))
		})

		It("should skip the rotation when nothing changed", func() {
			view, err := env.service.UpdateCompensation(id, employee.CompensationDTO{
				Amount:   decimal.NewFromInt(55000),
				Currency: "BDT",
				Reason:   "no-op resubmission",
			}, testActor)

			Expect(err).ToNot(HaveOccurred())
			Expect(view).ToNot(BeNil())

			history, salErr := env.salaryRepo.History(id)
			Expect(salErr).ToNot(HaveOccurred())
			Expect(history).To(HaveLen(1))
			Expect(env.trailRepo.entriesFor(id, audit.ActionCompensationChanged)).To(BeEmpty())
		})

		It("should rotate when only the currency changes", func() {
			_, err := env.service.UpdateCompensation(id, employee.CompensationDTO{
				Amount:   decimal.NewFromInt(55000),
				Currency: "USD",
				Reason:   "contract moved to USD billing",
			}, testActor)
			Expect(err).ToNot(HaveOccurred())

			history, salErr := env.salaryRepo.History(id)
			Expect(salErr).ToNot(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[1].Currency).To(Equal("USD"))
		})
	})
})
