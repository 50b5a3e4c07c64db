package employee

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/audit"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/salary"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/transport"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateEmployee(dto CreateEmployeeDTO, actor internal.Actor) (*View, error)
	UpdateEmployee(id string, dto UpdateEmployeeDTO, actor internal.Actor) (*View, error)
	SetStatus(id string, dto SetStatusDTO, actor internal.Actor) (*View, error)
	SetDateOfLeaving(id string, dto SetLeavingDateDTO, actor internal.Actor) (*View, error)
	SoftDelete(id string, dto SoftDeleteDTO, actor internal.Actor) (*View, error)
	Restore(id string, actor internal.Actor) (*View, error)
	UpdateCompensation(id string, dto CompensationDTO, actor internal.Actor) (*View, error)
	ReplaceShifts(id string, dto ReplaceShiftsDTO, actor internal.Actor) (*View, error)
	GetEmployee(id string) (*View, error)
	ListEmployees(includeDeleted bool, limit, offset int) ([]*Record, error)
	ListAudit(id string, limit int, beforeSeq int64) ([]*audit.Entry, error)
	ListSalaryHistory(id string) ([]*salary.Period, error)
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

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (internal.Actor, bool) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.Logger.Error("actor not found in context", "path", r.URL.Path)
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return internal.Actor{}, false
	}
	return actor, true
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateEmployee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.CreateEmployee(dto, actor)
	if err != nil {
		h.Logger.Error("CreateEmployee: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created",
		"employee_id", view.Record.ID,
		"actor_id", actor.ID)

	h.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := h.Service.GetEmployee(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	records, err := h.Service.ListEmployees(includeDeleted, limit, offset)
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": records,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.UpdateEmployee(id, dto, actor)
	if err != nil {
		h.Logger.Error("UpdateEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var dto SetStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.SetStatus(id, dto, actor)
	if err != nil {
		h.Logger.Error("SetStatus: service error", "error", err, "employee_id", id, "status", dto.Status)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SetStatus: status changed", "employee_id", id, "status", dto.Status, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) SetDateOfLeaving(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var dto SetLeavingDateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.SetDateOfLeaving(id, dto, actor)
	if err != nil {
		h.Logger.Error("SetDateOfLeaving: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var dto SoftDeleteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.SoftDelete(id, dto, actor)
	if err != nil {
		h.Logger.Error("SoftDelete: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	view, err := h.Service.Restore(id, actor)
	if err != nil {
		h.Logger.Error("Restore: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateCompensation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var dto CompensationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.UpdateCompensation(id, dto, actor)
	if err != nil {
		h.Logger.Error("UpdateCompensation: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ReplaceShifts(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var dto ReplaceShiftsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.ReplaceShifts(id, dto, actor)
	if err != nil {
		h.Logger.Error("ReplaceShifts: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	var beforeSeq int64
	if beforeStr := r.URL.Query().Get("before_seq"); beforeStr != "" {
		if b, err := strconv.ParseInt(beforeStr, 10, 64); err == nil && b > 0 {
			beforeSeq = b
		}
	}

	entries, err := h.Service.ListAudit(id, limit, beforeSeq)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"entries": entries}
	if len(entries) > 0 {
		resp["next_before_seq"] = entries[len(entries)-1].Seq
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListSalaryHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	periods, err := h.Service.ListSalaryHistory(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"periods": periods})
}
