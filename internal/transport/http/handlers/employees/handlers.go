package employeeshandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/employee"
	"leavedesk/internal/domain/entitlement"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
)

type Handler struct {
	Employees    *employee.Store
	Entitlements *entitlement.Store
	Leave        *leave.Service
}

func NewHandler(employees *employee.Store, entitlements *entitlement.Store, leaveService *leave.Service) *Handler {
	return &Handler{Employees: employees, Entitlements: entitlements, Leave: leaveService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{employeeID}", h.handleGet)
		r.Get("/{employeeID}/entitlements", h.handleEntitlements)
		r.Get("/{employeeID}/balances", h.handleBalances)
	})
	r.Get("/partners", h.handlePartners)
	r.With(middleware.RequireIdentity).Get("/me/balances", h.handleOwnBalances)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employees, err := h.Employees.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := strings.TrimSpace(chi.URLParam(r, "employeeID"))
	emp, err := h.Employees.Get(r.Context(), id)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleEntitlements(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := strings.TrimSpace(chi.URLParam(r, "employeeID"))
	ent, err := h.Entitlements.Get(r.Context(), id)
	if errors.Is(err, entitlement.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "entitlements not configured", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "entitlement_get_failed", "failed to load entitlements", reqID)
		return
	}
	api.Success(w, ent, reqID)
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := strings.TrimSpace(chi.URLParam(r, "employeeID"))
	h.writeBalances(w, r, id, reqID)
}

func (h *Handler) handleOwnBalances(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	h.writeBalances(w, r, identity.EmployeeID, reqID)
}

func (h *Handler) writeBalances(w http.ResponseWriter, r *http.Request, employeeID, reqID string) {
	balances, err := h.Leave.Balances(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "balance_failed", "failed to compute balances", reqID)
		return
	}
	api.Success(w, balances, reqID)
}

func (h *Handler) handlePartners(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	partners, err := h.Employees.Partners(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "partner_list_failed", "failed to list partners", reqID)
		return
	}
	api.Success(w, partners, reqID)
}
