package dto

import (
	"time"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// RegisterUserRequest is the signup payload. Admins are provisioned out of
// band, not through this endpoint.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=COMPANY WORKER"`
	FCMToken string `json:"fcmToken"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse is a user as returned to clients.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
