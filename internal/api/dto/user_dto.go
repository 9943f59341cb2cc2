package dto

import (
	"time"

	"github.com/campusops/issue-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Password   string             `json:"password"`
	Role       domain.Role        `json:"role"`
	Department *domain.Department `json:"department"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the safe representation of an account.
type UserResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       domain.Role        `json:"role"`
	Department *domain.Department `json:"department,omitempty"`
}

// AuthResponse wraps an issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FromUser maps a domain user into its response form.
func FromUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
	}
}
