package proto

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type RegisterRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Profile  map[string]any `json:"profile,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse answers both Register and Login.
type SessionResponse struct {
	User      *models.UserView `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type AuthenticateRequest struct {
	Token string `json:"token"`
}

type AuthenticateResponse struct {
	UserID string `json:"user_id"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type MeRequest struct{}

type UserResponse struct {
	User *models.UserView `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*models.UserView `json:"users"`
}
