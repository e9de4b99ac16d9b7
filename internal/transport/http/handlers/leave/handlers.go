package leavehandler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity)
			r.Post("/requests", h.handleApply)
			r.Post("/requests/{requestID}/approve", h.handleApprove)
			r.Post("/requests/{requestID}/decline", h.handleDecline)
			r.Post("/requests/{requestID}/recall", h.handleRecall)
			r.Post("/requests/{requestID}/withdraw", h.handleWithdraw)
			r.Get("/requests/latest", h.handleLatest)
			r.Get("/history", h.handleHistory)
		})
		r.Get("/pending", h.handlePending)
		r.Get("/approved", h.handleApproved)
		r.Get("/team", h.handleTeam)
		r.Get("/team/export", h.handleTeamExport)
	})
}

type applyPayload struct {
	Category      string `json:"category"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Description   string `json:"description"`
	HasAttachment bool   `json:"hasAttachment"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	var payload applyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	category, _ := v.Category("category", payload.Category)
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Service.Apply(r.Context(), leave.Application{
		EmployeeID:    identity.EmployeeID,
		Category:      category,
		Start:         start,
		End:           end,
		Description:   strings.TrimSpace(payload.Description),
		HasAttachment: payload.HasAttachment,
	})
	if err != nil {
		h.failLeave(w, err, reqID)
		return
	}
	api.Created(w, result, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := requestID(w, r, reqID)
	if !ok {
		return
	}
	if err := h.Service.Approve(r.Context(), id); err != nil {
		h.failLeave(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"id": id, "status": leave.StatusApproved}, reqID)
}

type reasonPayload struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleDecline(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := requestID(w, r, reqID)
	if !ok {
		return
	}
	var payload reasonPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if err := h.Service.Decline(r.Context(), id, payload.Reason); err != nil {
		h.failLeave(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"id": id, "status": leave.StatusDeclined}, reqID)
}

func (h *Handler) handleRecall(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := requestID(w, r, reqID)
	if !ok {
		return
	}
	today, ok := h.referenceDate(w, r, reqID)
	if !ok {
		return
	}
	if err := h.Service.Recall(r.Context(), id, today); err != nil {
		h.failLeave(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"id": id, "status": leave.StatusRecalled, "reason": leave.RecallReason}, reqID)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := requestID(w, r, reqID)
	if !ok {
		return
	}
	var payload reasonPayload
	if r.Body != nil {
		// Body is optional for withdraw.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	if err := h.Service.Withdraw(r.Context(), id, payload.Reason); err != nil {
		h.failLeave(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"id": id, "status": leave.StatusWithdrawn}, reqID)
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	latest, err := h.Service.Latest(r.Context(), identity.EmployeeID)
	if errors.Is(err, leave.ErrNotFound) {
		api.Success(w, nil, reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_latest_failed", "failed to load latest request", reqID)
		return
	}
	api.Success(w, latest, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	history, err := h.Service.History(r.Context(), identity.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_history_failed", "failed to load leave history", reqID)
		return
	}
	api.Success(w, history, reqID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	pending, err := h.Service.ListPending(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_pending_failed", "failed to list pending requests", reqID)
		return
	}
	api.Success(w, pending, reqID)
}

type skippedRecord struct {
	RequestID int64  `json:"requestId"`
	Field     string `json:"field"`
	Value     string `json:"value"`
}

func (h *Handler) handleApproved(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	today, ok := h.referenceDate(w, r, reqID)
	if !ok {
		return
	}
	candidates, malformed, err := h.Service.ListApproved(r.Context(), today)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_approved_failed", "failed to list approved requests", reqID)
		return
	}
	skipped := make([]skippedRecord, 0, len(malformed))
	for _, m := range malformed {
		skipped = append(skipped, skippedRecord{RequestID: m.RequestID, Field: m.Field, Value: m.Value})
	}
	api.Success(w, map[string]any{"requests": candidates, "skipped": skipped}, reqID)
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter, ok := h.teamFilter(w, r, reqID)
	if !ok {
		return
	}
	requests, err := h.Service.TeamView(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_team_failed", "failed to load team view", reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleTeamExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter, ok := h.teamFilter(w, r, reqID)
	if !ok {
		return
	}
	requests, err := h.Service.TeamView(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_team_failed", "failed to load team view", reqID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="team-leaves.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"id", "employeeId", "employeeName", "category", "startDate", "endDate", "status", "description", "declineReason", "recallReason"})
	for _, req := range requests {
		_ = writer.Write([]string{
			strconv.FormatInt(req.ID, 10),
			req.EmployeeID,
			req.EmployeeName,
			string(req.Category),
			req.StartDate,
			req.EndDate,
			string(req.Status),
			req.Description,
			req.DeclineReason,
			req.RecallReason,
		})
	}
	writer.Flush()
}

func (h *Handler) teamFilter(w http.ResponseWriter, r *http.Request, reqID string) (leave.TeamFilter, bool) {
	v := shared.NewValidator()
	var filter leave.TeamFilter
	for _, raw := range splitParams(r.URL.Query()["status"]) {
		status := leave.Status(raw)
		switch status {
		case leave.StatusPending, leave.StatusApproved, leave.StatusDeclined, leave.StatusRecalled, leave.StatusWithdrawn:
			filter.Statuses = append(filter.Statuses, status)
		default:
			v.Add("status", "unknown status "+raw)
		}
	}
	for _, raw := range splitParams(r.URL.Query()["category"]) {
		if category, ok := v.Category("category", raw); ok {
			filter.Categories = append(filter.Categories, category)
		}
	}
	filter.Employees = splitParams(r.URL.Query()["employee"])
	if v.Reject(w, reqID) {
		return leave.TeamFilter{}, false
	}
	return filter, true
}

// referenceDate reads an optional ?today= override, defaulting to the current
// date. The override keeps recall decisions reproducible for callers that
// need a fixed reference day.
func (h *Handler) referenceDate(w http.ResponseWriter, r *http.Request, reqID string) (leave.Date, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("today"))
	if raw == "" {
		return leave.Today(), true
	}
	v := shared.NewValidator()
	today, _ := v.Date("today", raw)
	if v.Reject(w, reqID) {
		return leave.Date{}, false
	}
	return today, true
}

func requestID(w http.ResponseWriter, r *http.Request, reqID string) (int64, bool) {
	raw := chi.URLParam(r, "requestID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request_id", "request id must be a positive integer", reqID)
		return 0, false
	}
	return id, true
}

func (h *Handler) failLeave(w http.ResponseWriter, err error, reqID string) {
	var transition *leave.InvalidTransitionError
	var balance *leave.RejectedBalanceError
	var window *leave.RecallWindowError
	var malformed *leave.MalformedDateError
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
	case errors.Is(err, leave.ErrEmptyReason):
		api.Fail(w, http.StatusBadRequest, "empty_reason", "decline reason is required", reqID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "end date is before start date", reqID)
	case errors.As(err, &transition):
		api.FailWithDetails(w, http.StatusConflict, "invalid_transition", transition.Error(),
			map[string]any{"status": transition.From, "event": transition.Event}, reqID)
	case errors.As(err, &balance):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "rejected_balance", balance.Error(),
			map[string]any{"category": balance.Category, "remaining": balance.Remaining}, reqID)
	case errors.As(err, &window):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "recall_window_too_short", window.Error(),
			map[string]any{"daysLeft": window.DaysLeft}, reqID)
	case errors.As(err, &malformed):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "malformed_date", malformed.Error(),
			skippedRecord{RequestID: malformed.RequestID, Field: malformed.Field, Value: malformed.Value}, reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_operation_failed", "leave operation failed", reqID)
	}
}

func splitParams(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
