package dto

import "github.com/dojolink/dojolink/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,min=8"`
	Role      models.RoleType `json:"role" binding:"required,oneof=instructor student"`
	FirstName string          `json:"firstName" binding:"required"`
	LastName  string          `json:"lastName" binding:"required"`
}

// UserSummary represents the user block returned alongside a token
type UserSummary struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Role      models.RoleType `json:"role"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Success   bool        `json:"success" example:"true"`
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
	User      UserSummary `json:"user"`
}
