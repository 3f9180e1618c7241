package dto

import "time"

// LoginRequest defines the credentials for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful authentication. The refresh token
// travels in an HTTP-only cookie, not in the body.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// RefreshResponse is returned when an access token is refreshed.
type RefreshResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExchangeCodeRequest carries the authorization code from the Google sign-in
// redirect handled by the frontend.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}
