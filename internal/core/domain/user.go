package domain

import "time"

// User represents a registered user of the application.
// Email is stored lower-cased and is the login identifier.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Currency     string `json:"currency"` // Preferred display currency (ISO 4217)
	Phone        string `json:"phone,omitempty"`
	AuditFields
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"` // Soft delete marker

	// External identity provider linkage (e.g. Google sign-in).
	AuthProvider   string `json:"-"`
	ProviderUserID string `json:"-"`

	// Refresh token state. Only the SHA-256 hash of the token is stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
