package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kestrelhq/trackdeck/internal/api/middleware"
	"github.com/kestrelhq/trackdeck/internal/api/response"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/kestrelhq/trackdeck/internal/service"
)

// AdminHandler handles administrative user management endpoints
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers handles listing all user accounts
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, users)
}

// CreateUser handles creating a local user account
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	user, err := h.adminService.CreateUser(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, user)
}

// ResetPassword handles an admin-side password reset
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, err := urlUUID(r, "userID")
	if err != nil {
		response.BadRequest(w, "invalid user ID")
		return
	}

	var input domain.PasswordReset
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	if err := h.adminService.ResetPassword(r.Context(), userID, input); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "password reset"})
}

// UpdateEmail handles linking an email to an account
func (h *AdminHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := urlUUID(r, "userID")
	if err != nil {
		response.BadRequest(w, "invalid user ID")
		return
	}

	var input domain.EmailUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	if err := h.adminService.UpdateEmail(r.Context(), userID, input); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "email updated"})
}

// DeleteUser handles deleting a user account and everything it owns
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	userID, err := urlUUID(r, "userID")
	if err != nil {
		response.BadRequest(w, "invalid user ID")
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), actor, userID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
