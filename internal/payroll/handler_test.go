package payroll_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll"
)

// Mock ledger service for handler testing.
type mockLedgerService struct {
	openErr    error
	markErr    error
	retryErr   error
	listErr    error
	attempt    *payroll.Attempt
	lastActor  internal.Actor
	lastReason string
}

func (m *mockLedgerService) OpenPeriod(employeeID string, periodStart time.Time, amount decimal.Decimal, currency string, dueDate time.Time) (*payroll.Attempt, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.attempt, nil
}

func (m *mockLedgerService) MarkPaid(attemptID string, attemptedAt time.Time) (*payroll.Attempt, error) {
	if m.markErr != nil {
		return nil, m.markErr
	}
	return m.attempt, nil
}

func (m *mockLedgerService) MarkFailed(attemptID string, attemptedAt time.Time, reason string) (*payroll.Attempt, error) {
	if m.markErr != nil {
		return nil, m.markErr
	}
	m.lastReason = reason
	return m.attempt, nil
}

func (m *mockLedgerService) Retry(attemptID string, actor internal.Actor) (*payroll.Attempt, error) {
	if m.retryErr != nil {
		return nil, m.retryErr
	}
	m.lastActor = actor
	return m.attempt, nil
}

func (m *mockLedgerService) ListPayments(employeeID string) ([]*payroll.Attempt, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return []*payroll.Attempt{m.attempt}, nil
}

var _ = Describe("PayrollHandler", func() {
	var (
		handler *payroll.Handler
		service *mockLedgerService
		router  *chi.Mux
	)

	BeforeEach(func() {
		service = &mockLedgerService{
			attempt: &payroll.Attempt{
				ID:          "att-1",
				EmployeeID:  "emp-1",
				PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				Amount:      decimal.NewFromInt(55000),
				Currency:    "BDT",
				Status:      payroll.StatusPending,
			},
		}
		handler = payroll.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/employees/{id}/payments", handler.OpenPeriod)
		router.Get("/employees/{id}/payments", handler.ListPayments)
		router.Post("/payments/{attemptID}/paid", handler.MarkPaid)
		router.Post("/payments/{attemptID}/failed", handler.MarkFailed)
		router.Post("/payments/{attemptID}/retry", handler.Retry)
	})

	Describe("OpenPeriod", func() {
		It("should return 201 with the attempt", func() {
			body, _ := json.Marshal(map[string]interface{}{
				"period_start": "2025-03-01",
				"amount":       "55000",
				"currency":     "BDT",
				"due_date":     "2025-03-28",
			})
			req := httptest.NewRequest(http.MethodPost, "/employees/emp-1/payments", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var resp payroll.Attempt
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).To(Equal("att-1"))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/employees/emp-1/payments", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for a bad period date", func() {
			body, _ := json.Marshal(map[string]interface{}{
				"period_start": "01/03/2025",
				"amount":       "55000",
				"currency":     "BDT",
				"due_date":     "2025-03-28",
			})
			req := httptest.NewRequest(http.MethodPost, "/employees/emp-1/payments", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map a duplicate period to 409", func() {
			service.openErr = internal.ErrDuplicatePayPeriod

			body, _ := json.Marshal(map[string]interface{}{
				"period_start": "2025-03-01",
				"amount":       "55000",
				"currency":     "BDT",
				"due_date":     "2025-03-28",
			})
			req := httptest.NewRequest(http.MethodPost, "/employees/emp-1/payments", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("MarkPaid", func() {
		It("should return 200 with the settled attempt", func() {
			service.attempt.Status = payroll.StatusPaid

			req := httptest.NewRequest(http.MethodPost, "/payments/att-1/paid", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp payroll.Attempt
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal(payroll.StatusPaid))
		})

		It("should map an unknown attempt to 404", func() {
			service.markErr = internal.ErrAttemptNotFound

			req := httptest.NewRequest(http.MethodPost, "/payments/no-such/paid", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("MarkFailed", func() {
		It("should pass the reason through", func() {
			body, _ := json.Marshal(map[string]string{"reason": "bank rejected transfer"})
			req := httptest.NewRequest(http.MethodPost, "/payments/att-1/failed", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastReason).To(Equal("bank rejected transfer"))
		})

		It("should reject an empty reason", func() {
			body, _ := json.Marshal(map[string]string{"reason": ""})
			req := httptest.NewRequest(http.MethodPost, "/payments/att-1/failed", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Retry", func() {
		It("should require an authenticated actor", func() {
			req := httptest.NewRequest(http.MethodPost, "/payments/att-1/retry", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should forward the actor from the request context", func() {
			actor := internal.Actor{ID: "ops-7", Kind: internal.ActorKindUser}
			req := httptest.NewRequest(http.MethodPost, "/payments/att-1/retry", nil)
			req = req.WithContext(internal.ContextWithActor(req.Context(), actor))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastActor).To(Equal(actor))
		})
	})

	Describe("ListPayments", func() {
		It("should wrap the attempts in an envelope", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/emp-1/payments", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp struct {
				Attempts []*payroll.Attempt `json:"attempts"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Attempts).To(HaveLen(1))
		})
	})
})
