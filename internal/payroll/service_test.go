package payroll_test

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/clock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/keylock"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll"
)

func TestPayrollLedger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payroll Ledger Suite")
}

// Mock repository for testing. It hands out copies so in-memory mutation
// only lands after an explicit Update, like a real store.
type mockPayrollRepository struct {
	mu          sync.Mutex
	attempts    map[string]*payroll.Attempt
	createError error
	getError    error
	updateError error
}

func newMockPayrollRepository() *mockPayrollRepository {
	return &mockPayrollRepository{attempts: make(map[string]*payroll.Attempt)}
}

func (m *mockPayrollRepository) Create(attempt *payroll.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	cp := *attempt
	m.attempts[attempt.ID] = &cp
	return nil
}

func (m *mockPayrollRepository) GetByID(id string) (*payroll.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	a, ok := m.attempts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockPayrollRepository) GetByEmployeeAndPeriod(employeeID string, periodStart time.Time) (*payroll.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	for _, a := range m.attempts {
		if a.EmployeeID == employeeID && a.PeriodStart.Equal(periodStart) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockPayrollRepository) ListFor(employeeID string) ([]*payroll.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*payroll.Attempt, 0)
	for _, a := range m.attempts {
		if a.EmployeeID == employeeID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockPayrollRepository) Update(attempt *payroll.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return m.updateError
	}
	cp := *attempt
	m.attempts[attempt.ID] = &cp
	return nil
}

// Mock employee gate for testing.
type mockGate struct {
	terminated bool
	effective  *time.Time
	err        error
}

func (g *mockGate) TerminationInfo(employeeID string) (bool, *time.Time, error) {
	return g.terminated, g.effective, g.err
}

// Mock audit repository for testing.
type mockAuditRepository struct {
	mu      sync.Mutex
	entries []*audit.Entry
	err     error
}

func (m *mockAuditRepository) Append(entry *audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.Seq = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) ListFor(employeeID string, limit int, beforeSeq int64) ([]*audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*audit.Entry, 0)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.entries[i]
		if e.EmployeeID != employeeID {
			continue
		}
		if beforeSeq > 0 && e.Seq >= beforeSeq {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockAuditRepository) countAction(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

var _ = Describe("PayrollLedger", func() {
	var (
		ledger      *payroll.Ledger
		mockRepo    *mockPayrollRepository
		gate        *mockGate
		auditRepo   *mockAuditRepository
		fixedClock  *clock.Fixed
		logger      *slog.Logger
		employeeID  string
		periodStart time.Time
		dueDate     time.Time
		amount      decimal.Decimal
	)

	BeforeEach(func() {
		mockRepo = newMockPayrollRepository()
		gate = &mockGate{}
		auditRepo = &mockAuditRepository{}
		fixedClock = clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		trail := audit.NewTrail(auditRepo, fixedClock, logger)
		ledger = payroll.NewLedger(mockRepo, gate, trail, keylock.New(), fixedClock, nil, logger)

		employeeID = "emp-1"
		periodStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		dueDate = time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)
		amount = decimal.NewFromInt(55000)
	})

	Describe("OpenPeriod", func() {
		It("should create a pending attempt and audit the opening", func() {
			attempt, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt).ToNot(BeNil())
			Expect(attempt.Status).To(Equal(payroll.StatusPending))
			Expect(attempt.Amount).To(Equal(amount))
			Expect(attempt.RetryCount).To(Equal(0))
			Expect(attempt.AttemptedAt).To(BeNil())
			Expect(auditRepo.countAction(audit.ActionPayPeriodOpened)).To(Equal(1))
		})

		It("should reject a second attempt for the same period", func() {
			_, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)
			Expect(err).ToNot(HaveOccurred())

			_, err = ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)

			Expect(err).To(Equal(internal.ErrDuplicatePayPeriod))
		})

		It("should allow attempts for distinct periods", func() {
			_, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)
			Expect(err).ToNot(HaveOccurred())

			april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
			attempt, err := ledger.OpenPeriod(employeeID, april, amount, "BDT", dueDate.AddDate(0, 1, 0))

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.PeriodStart).To(Equal(april))
		})

		Context("when the employee is terminated", func() {
			It("should reject a period starting after the leaving date", func() {
				leaving := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
				gate.terminated = true
				gate.effective = &leaving

				_, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)

				Expect(err).To(Equal(internal.ErrPostTermination))
			})

			It("should reject any period when no leaving date is recorded", func() {
				gate.terminated = true
				gate.effective = nil

				_, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)

				Expect(err).To(Equal(internal.ErrPostTermination))
			})

			It("should still allow a period that started before the leaving date", func() {
				leaving := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
				gate.terminated = true
				gate.effective = &leaving

				attempt, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)

				Expect(err).ToNot(HaveOccurred())
				Expect(attempt).ToNot(BeNil())
			})
		})

		It("should propagate gate failures", func() {
			gate.err = errors.New("db down")

			_, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MarkPaid", func() {
		var attemptID string

		BeforeEach(func() {
			attempt, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)
			Expect(err).ToNot(HaveOccurred())
			attemptID = attempt.ID
		})

		It("should settle a pending attempt", func() {
			paidAt := fixedClock.Now()

			attempt, err := ledger.MarkPaid(attemptID, paidAt)

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.Status).To(Equal(payroll.StatusPaid))
			Expect(attempt.AttemptedAt).ToNot(BeNil())
			Expect(attempt.AttemptedAt.Equal(paidAt)).To(BeTrue())
			Expect(auditRepo.countAction(audit.ActionPaymentPaid)).To(Equal(1))
		})

		It("should reject paying a failed attempt", func() {
			_, err := ledger.MarkFailed(attemptID, fixedClock.Now(), "bank rejected transfer")
			Expect(err).ToNot(HaveOccurred())

			_, err = ledger.MarkPaid(attemptID, fixedClock.Now())

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInvalidTransition))
		})

		It("should reject paying twice", func() {
			_, err := ledger.MarkPaid(attemptID, fixedClock.Now())
			Expect(err).ToNot(HaveOccurred())

			_, err = ledger.MarkPaid(attemptID, fixedClock.Now())

			Expect(err).To(HaveOccurred())
			Expect(auditRepo.countAction(audit.ActionPaymentPaid)).To(Equal(1))
		})

		It("should return not found for an unknown attempt", func() {
			_, err := ledger.MarkPaid("no-such-attempt", fixedClock.Now())

			Expect(err).To(Equal(internal.ErrAttemptNotFound))
		})
	})

	Describe("MarkFailed", func() {
		var attemptID string

		BeforeEach(func() {
			attempt, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)
			Expect(err).ToNot(HaveOccurred())
			attemptID = attempt.ID
		})

		It("should record the failure with its reason", func() {
			attempt, err := ledger.MarkFailed(attemptID, fixedClock.Now(), "insufficient funds")

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.Status).To(Equal(payroll.StatusFailed))
			Expect(attempt.FailureReason).ToNot(BeNil())
			Expect(*attempt.FailureReason).To(Equal("insufficient funds"))
			Expect(auditRepo.countAction(audit.ActionPaymentFailed)).To(Equal(1))
		})

		It("should reject failing a paid attempt", func() {
			_, err := ledger.MarkPaid(attemptID, fixedClock.Now())
			Expect(err).ToNot(HaveOccurred())

			_, err = ledger.MarkFailed(attemptID, fixedClock.Now(), "late bounce")

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInvalidTransition))
		})
	})

	Describe("Retry", func() {
		var attemptID string
		actor := internal.Actor{ID: "ops-7", Kind: internal.ActorKindUser}

		BeforeEach(func() {
			attempt, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)
			Expect(err).ToNot(HaveOccurred())
			attemptID = attempt.ID
		})

		It("should reset a failed attempt to pending", func() {
			_, err := ledger.MarkFailed(attemptID, fixedClock.Now(), "bank rejected transfer")
			Expect(err).ToNot(HaveOccurred())

			attempt, err := ledger.Retry(attemptID, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.Status).To(Equal(payroll.StatusPending))
			Expect(attempt.FailureReason).To(BeNil())
			Expect(attempt.RetryCount).To(Equal(1))
			Expect(auditRepo.countAction(audit.ActionPaymentRetried)).To(Equal(1))
		})

		It("should be a no-op on a pending attempt", func() {
			attempt, err := ledger.Retry(attemptID, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.Status).To(Equal(payroll.StatusPending))
			Expect(attempt.RetryCount).To(Equal(0))
			Expect(auditRepo.countAction(audit.ActionPaymentRetried)).To(Equal(0))
		})

		It("should be a no-op on a paid attempt", func() {
			_, err := ledger.MarkPaid(attemptID, fixedClock.Now())
			Expect(err).ToNot(HaveOccurred())

			attempt, err := ledger.Retry(attemptID, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.Status).To(Equal(payroll.StatusPaid))
			Expect(auditRepo.countAction(audit.ActionPaymentRetried)).To(Equal(0))
		})

		It("should roll the attempt back when the audit append fails", func() {
			_, err := ledger.MarkFailed(attemptID, fixedClock.Now(), "bank rejected transfer")
			Expect(err).ToNot(HaveOccurred())

			auditRepo.err = errors.New("trail unavailable")
			_, err = ledger.Retry(attemptID, actor)
			Expect(err).To(HaveOccurred())
			auditRepo.err = nil

			attempt, err := ledger.GetAttempt(attemptID)
			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.Status).To(Equal(payroll.StatusFailed))
			Expect(attempt.RetryCount).To(Equal(0))
		})

		It("should apply exactly one reset under concurrent duplicate requests", func() {
			_, err := ledger.MarkFailed(attemptID, fixedClock.Now(), "bank rejected transfer")
			Expect(err).ToNot(HaveOccurred())

			var wg sync.WaitGroup
			for i := 0; i < 100; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, retryErr := ledger.Retry(attemptID, actor)
					Expect(retryErr).ToNot(HaveOccurred())
				}()
			}
			wg.Wait()

			attempt, err := ledger.GetAttempt(attemptID)
			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.Status).To(Equal(payroll.StatusPending))
			Expect(attempt.RetryCount).To(Equal(1))
			Expect(auditRepo.countAction(audit.ActionPaymentRetried)).To(Equal(1))
		})
	})

	Describe("AttemptForPeriod", func() {
		It("should return nil when no attempt covers the period", func() {
			attempt, err := ledger.AttemptForPeriod(employeeID, periodStart)

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt).To(BeNil())
		})

		It("should return the covering attempt", func() {
			created, err := ledger.OpenPeriod(employeeID, periodStart, amount, "BDT", dueDate)
			Expect(err).ToNot(HaveOccurred())

			attempt, err := ledger.AttemptForPeriod(employeeID, periodStart)

			Expect(err).ToNot(HaveOccurred())
			Expect(attempt.ID).To(Equal(created.ID))
		})
	})
})
