package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"shopcheck/internal/service"
	"shopcheck/internal/transport/rest/middleware"
)

// ReportHandler handles completed report endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ByChecklist handles GET /v1/checklists/{id}/reports
func (h *ReportHandler) ByChecklist(w http.ResponseWriter, r *http.Request) {
	checklistID := mux.Vars(r)["id"]

	reports, err := h.reportSvc.RecentByChecklist(r.Context(), checklistID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// ByWorker handles GET /v1/employees/{id}/reports
func (h *ReportHandler) ByWorker(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	reports, err := h.reportSvc.RecentByWorker(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// Mine handles GET /v1/my/reports
func (h *ReportHandler) Mine(w http.ResponseWriter, r *http.Request) {
	workerID := middleware.GetUserID(r.Context())

	reports, err := h.reportSvc.RecentByWorker(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// Details handles GET /v1/reports/{id}
func (h *ReportHandler) Details(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	detail, err := h.reportSvc.Details(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
