package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopcheck/internal/model"
	"shopcheck/internal/service"
	"shopcheck/internal/transport/rest/middleware"
)

// SessionHandler handles checklist run endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// StartRequest is the request body for starting a checklist run
type StartRequest struct {
	ChecklistID string `json:"checklistId"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	workerID := middleware.GetUserID(r.Context())

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ChecklistID == "" {
		writeError(w, http.StatusBadRequest, "checklistId is required")
		return
	}

	step, err := h.sessionSvc.Start(r.Context(), workerID, req.ChecklistID)
	if err != nil {
		if errors.Is(err, service.ErrChecklistNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, step)
}

// Input handles POST /v1/sessions/input. Every inbound event from the
// worker's conversation lands here; the engine decides what it means.
func (h *SessionHandler) Input(w http.ResponseWriter, r *http.Request) {
	workerID := middleware.GetUserID(r.Context())

	var in model.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	step, err := h.sessionSvc.Handle(r.Context(), workerID, in)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "no checklist in progress")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, step)
}

// Cancel handles POST /v1/sessions/cancel
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	workerID := middleware.GetUserID(r.Context())

	step, err := h.sessionSvc.Handle(r.Context(), workerID, model.Input{Kind: model.InputCancel})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "no checklist in progress")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, step)
}
