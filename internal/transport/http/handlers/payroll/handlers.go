package payrollhandler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/employee"
	"leavedesk/internal/domain/payroll"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/partners", h.handleSummaries)
		r.Get("/partners/{partnerID}", h.handleSummary)
		r.Get("/partners/{partnerID}/export", h.handleExport)
	})
}

func (h *Handler) handleSummaries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	summaries, err := h.Service.AllPartnerSummaries(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_summary_failed", "failed to build payroll summaries", reqID)
		return
	}
	api.Success(w, summaries, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	summary, ok := h.loadSummary(w, r, reqID)
	if !ok {
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	summary, ok := h.loadSummary(w, r, reqID)
	if !ok {
		return
	}
	pdf, err := payroll.SummaryPDF(summary)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_export_failed", "failed to render payroll PDF", reqID)
		return
	}
	filename := strings.ReplaceAll(strings.ToLower(summary.PartnerName), " ", "-")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+"-payroll.pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) loadSummary(w http.ResponseWriter, r *http.Request, reqID string) (payroll.PartnerSummary, bool) {
	partnerID := strings.TrimSpace(chi.URLParam(r, "partnerID"))
	summary, err := h.Service.PartnerSummary(r.Context(), partnerID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "partner not found", reqID)
		return payroll.PartnerSummary{}, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_summary_failed", "failed to build payroll summary", reqID)
		return payroll.PartnerSummary{}, false
	}
	return summary, true
}
