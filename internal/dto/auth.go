package dto

import (
	"time"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// LoginResponse is the data of a successful login
type LoginResponse struct {
	AuthToken string    `json:"auth_token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WhoAmIResponse describes the session behind a token
type WhoAmIResponse struct {
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
