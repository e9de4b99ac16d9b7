package reportshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/reports"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/partners", h.handlePartners)
		r.Get("/upcoming", h.handleUpcoming)
		r.Get("/current", h.handleCurrent)
	})
}

func (h *Handler) handlePartners(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	stats, err := h.Service.PartnerStats(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "partner_stats_failed", "failed to aggregate partner stats", reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	today, ok := referenceDate(w, r, reqID)
	if !ok {
		return
	}
	entries, err := h.Service.Upcoming(r.Context(), today)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upcoming_failed", "failed to load upcoming leaves", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	today, ok := referenceDate(w, r, reqID)
	if !ok {
		return
	}
	entries, err := h.Service.Current(r.Context(), today)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "current_failed", "failed to load current leaves", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func referenceDate(w http.ResponseWriter, r *http.Request, reqID string) (leave.Date, bool) {
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
