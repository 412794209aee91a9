package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"shopcheck/internal/model"
	"shopcheck/internal/service"
)

// EmployeeHandler handles user management endpoints
type EmployeeHandler struct {
	userSvc *service.UserService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(userSvc *service.UserService) *EmployeeHandler {
	return &EmployeeHandler{userSvc: userSvc}
}

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	ChatID   int64      `json:"chatId"`
	FullName string     `json:"fullName"`
	Role     model.Role `json:"role"`
	ShopID   string     `json:"shopId"`
	Position string     `json:"position"`
}

// Register handles POST /v1/employees
func (h *EmployeeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ChatID == 0 || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "chatId and fullName are required")
		return
	}
	switch req.Role {
	case model.RoleWorker, model.RoleAdmin, model.RoleSuperadmin:
	default:
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	id, err := h.userSvc.Register(r.Context(), req.ChatID, req.FullName, req.Role, req.ShopID, req.Position)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /v1/employees/{id}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := h.userSvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateRequest is the request body for updating a user
type UpdateRequest struct {
	FullName string `json:"fullName"`
	ChatID   int64  `json:"chatId"`
}

// Update handles PUT /v1/employees/{id}
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userSvc.Update(r.Context(), id, req.FullName, req.ChatID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /v1/employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.userSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Workers handles GET /v1/employees?role=worker style listing split into
// two fixed routes to keep the bot's menus simple.
func (h *EmployeeHandler) Workers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Admins handles GET /v1/admins
func (h *EmployeeHandler) Admins(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.ListAdmins(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// ByShop handles GET /v1/shops/{shop}/employees
func (h *EmployeeHandler) ByShop(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shop"]

	users, err := h.userSvc.EmployeesByShop(r.Context(), shopID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Positions handles GET /v1/positions. Distinct positions across all
// workers, used to populate the target-position picker.
func (h *EmployeeHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.userSvc.Positions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, positions)
}

// Shops handles GET /v1/shops
func (h *EmployeeHandler) Shops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.userSvc.WorkerShops(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, shops)
}

// AttachShopRequest is the request body for linking an admin to a shop
type AttachShopRequest struct {
	AdminChatID int64  `json:"adminChatId"`
	ShopName    string `json:"shopName"`
}

// AttachShop handles POST /v1/admins/shops
func (h *EmployeeHandler) AttachShop(w http.ResponseWriter, r *http.Request) {
	var req AttachShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AdminChatID == 0 || req.ShopName == "" {
		writeError(w, http.StatusBadRequest, "adminChatId and shopName are required")
		return
	}

	if err := h.userSvc.AttachAdminShop(r.Context(), req.AdminChatID, req.ShopName); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "linked"})
}
