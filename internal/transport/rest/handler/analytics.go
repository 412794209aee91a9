package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"shopcheck/internal/service"
)

// AnalyticsHandler handles statistics endpoints
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// ShopMonthly handles GET /v1/stats/shops
func (h *AnalyticsHandler) ShopMonthly(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsSvc.ShopMonthly(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// AdminActivity handles GET /v1/stats/admins/{chatId}
func (h *AnalyticsHandler) AdminActivity(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(mux.Vars(r)["chatId"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	activity, err := h.analyticsSvc.AdminActivity(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

// AllAdmins handles GET /v1/stats/admins
func (h *AnalyticsHandler) AllAdmins(w http.ResponseWriter, r *http.Request) {
	activities, err := h.analyticsSvc.AllAdminsActivity(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

// WorkerActivity handles GET /v1/stats/workers/{id}
func (h *AnalyticsHandler) WorkerActivity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	activity, err := h.analyticsSvc.WorkerActivity(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

// AllWorkers handles GET /v1/stats/workers
func (h *AnalyticsHandler) AllWorkers(w http.ResponseWriter, r *http.Request) {
	activities, err := h.analyticsSvc.AllWorkersActivity(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

// ChecklistUsage handles GET /v1/stats/checklists/{id}
func (h *AnalyticsHandler) ChecklistUsage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	usage, err := h.analyticsSvc.ChecklistUsage(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrChecklistNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, usage)
}
