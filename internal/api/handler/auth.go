package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kestrelhq/trackdeck/internal/api/middleware"
	"github.com/kestrelhq/trackdeck/internal/api/response"
	"github.com/kestrelhq/trackdeck/internal/config"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/kestrelhq/trackdeck/internal/service"
)

var validate = validator.New()

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, result)
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), actor.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if user == nil {
		response.Unauthorized(w, "user not found")
		return
	}

	response.OK(w, user)
}

// ChangePassword handles a self-service password change
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), actor.ID, input); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "password changed"})
}

// SSOStatus reports whether an external identity provider is configured
func SSOStatus(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"enabled": cfg.SSO.Enabled,
		}
		if cfg.SSO.Enabled {
			data["provider"] = cfg.SSO.Provider
			data["provider_url"] = cfg.SSO.ProviderURL
		}
		response.OK(w, data)
	}
}

// validationMessages turns validator errors into a field-to-message map
func validationMessages(err error) any {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	errors := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errors[field] = "field is required"
		case "email":
			errors[field] = "invalid email format"
		case "min":
			errors[field] = "must be at least " + e.Param() + " characters"
		case "max":
			errors[field] = "must be at most " + e.Param() + " characters"
		case "oneof":
			errors[field] = "must be one of: " + e.Param()
		default:
			errors[field] = "validation failed on " + e.Tag()
		}
	}
	return errors
}
