package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusops/issue-service/internal/api/dto"
	"github.com/campusops/issue-service/internal/service"
	apperrors "github.com/campusops/issue-service/pkg/util/errorutil"
)

// UsersHandler exposes authentication endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, req.Role, req.Department)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Registration successful", fiber.Map{
		"user": dto.FromUser(user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Login successful", fiber.Map{
		"user": dto.FromUser(user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}
