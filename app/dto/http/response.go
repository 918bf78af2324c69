package http

import "time"

// UserResponse is the externally visible shape of a user account. The
// password digest never leaves the service layer.
type UserResponse struct {
	ID        uint64     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

type ChangePasswordResponse struct {
	Message string `json:"message"`
}

type RequestPasswordResetResponse struct {
	Message string `json:"message"`
}

type ResetPasswordResponse struct {
	Message string `json:"message"`
}

type MeResponse struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
