package payroll

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/transport"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// ServiceAPI is implemented by the employee service facade, which wraps the
// ledger so opening a period also freezes the employee's joining date.
type ServiceAPI interface {
	OpenPeriod(employeeID string, periodStart time.Time, amount decimal.Decimal, currency string, dueDate time.Time) (*Attempt, error)
	MarkPaid(attemptID string, attemptedAt time.Time) (*Attempt, error)
	MarkFailed(attemptID string, attemptedAt time.Time, reason string) (*Attempt, error)
	Retry(attemptID string, actor internal.Actor) (*Attempt, error)
	ListPayments(employeeID string) ([]*Attempt, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var dto OpenPeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	periodStart, dueDate, appErr := dto.Parse()
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	attempt, err := h.Service.OpenPeriod(employeeID, periodStart, dto.Amount, dto.Currency, dueDate)
	if err != nil {
		h.Logger.Error("OpenPeriod: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("OpenPeriod: payment attempt opened",
		"attempt_id", attempt.ID,
		"employee_id", employeeID,
		"period_start", dto.PeriodStart)

	h.WriteJSON(w, http.StatusCreated, attempt)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")

	attempt, err := h.Service.MarkPaid(attemptID, time.Now().UTC())
	if err != nil {
		h.Logger.Error("MarkPaid: service error", "error", err, "attempt_id", attemptID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, attempt)
}

func (h *Handler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")

	var dto MarkFailedDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if appErr := dto.Validate(); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	attempt, err := h.Service.MarkFailed(attemptID, time.Now().UTC(), dto.Reason)
	if err != nil {
		h.Logger.Error("MarkFailed: service error", "error", err, "attempt_id", attemptID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, attempt)
}

func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	attemptID := chi.URLParam(r, "attemptID")

	attempt, err := h.Service.Retry(attemptID, actor)
	if err != nil {
		h.Logger.Error("Retry: service error", "error", err, "attempt_id", attemptID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Retry: payment attempt retried",
		"attempt_id", attemptID,
		"status", attempt.Status,
		"actor_id", actor.ID)

	h.WriteJSON(w, http.StatusOK, attempt)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	attempts, err := h.Service.ListPayments(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}
