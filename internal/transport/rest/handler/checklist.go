package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"shopcheck/internal/model"
	"shopcheck/internal/service"
	"shopcheck/internal/transport/rest/middleware"
)

// ChecklistHandler handles checklist template endpoints
type ChecklistHandler struct {
	checklistSvc *service.ChecklistService
	reportSvc    *service.ReportService
	userSvc      *service.UserService
}

// NewChecklistHandler creates a new checklist handler
func NewChecklistHandler(checklistSvc *service.ChecklistService, reportSvc *service.ReportService, userSvc *service.UserService) *ChecklistHandler {
	return &ChecklistHandler{
		checklistSvc: checklistSvc,
		reportSvc:    reportSvc,
		userSvc:      userSvc,
	}
}

// ChecklistRequest is the request body for creating or updating a checklist
type ChecklistRequest struct {
	Title          string `json:"title"`
	ShopID         string `json:"shopId"`
	TargetPosition string `json:"targetPosition"`
}

// Create handles POST /v1/checklists
func (h *ChecklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	id, err := h.checklistSvc.Create(r.Context(), req.Title, req.ShopID, req.TargetPosition)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List handles GET /v1/checklists
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	checklists, err := h.checklistSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, checklists)
}

// Get handles GET /v1/checklists/{id}
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	checklist, err := h.checklistSvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if checklist == nil {
		writeError(w, http.StatusNotFound, "checklist not found")
		return
	}

	writeJSON(w, http.StatusOK, checklist)
}

// Update handles PUT /v1/checklists/{id}
func (h *ChecklistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req ChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checklist, err := h.checklistSvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if checklist == nil {
		writeError(w, http.StatusNotFound, "checklist not found")
		return
	}

	checklist.Title = req.Title
	checklist.ShopID = req.ShopID
	checklist.TargetPosition = req.TargetPosition
	if err := h.checklistSvc.Update(r.Context(), checklist); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, checklist)
}

// Delete handles DELETE /v1/checklists/{id}. Refused while any report
// references the template.
func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.checklistSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrChecklistHasReports) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// QuestionRequest is the request body for adding or editing a question
type QuestionRequest struct {
	Text       string             `json:"text"`
	Type       model.QuestionType `json:"type"`
	NeedsPhoto bool               `json:"needsPhoto"`
}

// AddQuestion handles POST /v1/checklists/{id}/questions
func (h *ChecklistHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	checklistID := mux.Vars(r)["id"]

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.checklistSvc.AddQuestion(r.Context(), checklistID, req.Text, req.Type, req.NeedsPhoto)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestionType) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ListQuestions handles GET /v1/checklists/{id}/questions
func (h *ChecklistHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	checklistID := mux.Vars(r)["id"]
	includeDeleted := r.URL.Query().Get("includeDeleted") == "true"

	questions, err := h.checklistSvc.Questions(r.Context(), checklistID, includeDeleted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// EditQuestion handles PUT /v1/questions/{id}
func (h *ChecklistHandler) EditQuestion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.checklistSvc.EditQuestion(r.Context(), id, req.Text, req.Type, req.NeedsPhoto); err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidQuestionType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveQuestion handles DELETE /v1/questions/{id}. Soft delete: the
// question stops appearing in new runs but past answers keep it.
func (h *ChecklistHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.checklistSvc.RemoveQuestion(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Available handles GET /v1/my/checklists. Splits the caller's
// checklists into still-to-do and already-done-today.
func (h *ChecklistHandler) Available(w http.ResponseWriter, r *http.Request) {
	workerID := middleware.GetUserID(r.Context())

	user, err := h.userSvc.GetByID(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	completed, err := h.reportSvc.CompletedTodayIDs(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	todo, done, err := h.checklistSvc.AvailableForWorker(r.Context(), user, completed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"todo": todo,
		"done": done,
	})
}

// UsedToday handles GET /v1/checklists/used-today
func (h *ChecklistHandler) UsedToday(w http.ResponseWriter, r *http.Request) {
	checklists, err := h.checklistSvc.UsedToday(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, checklists)
}
