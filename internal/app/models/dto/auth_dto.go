package dto

import (
	"time"

	"github.com/yigit/ais/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank" example:"admin"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// TokenResponse represents the issued session token
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64     `json:"expiresIn" example:"28800"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SessionUser is the authenticated principal
type SessionUser struct {
	ID       int64       `json:"id" example:"1"`
	Username string      `json:"username" example:"admin"`
	Role     models.Role `json:"role" example:"ADMINISTRATOR" enums:"ADMINISTRATOR,TEACHER,STUDENT"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  SessionUser   `json:"user"`
}
