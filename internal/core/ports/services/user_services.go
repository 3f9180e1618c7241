package services

import (
	"context"
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/fambudget/family_budget_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email (case-normalized).
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a user from registration input. Fails with a
	// Conflict error when the email is already taken and a validation error
	// when the password confirmation does not match.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// UpdateUser updates a user's own profile fields.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// FindOrCreateOAuthUser returns the user linked to the identity provider,
	// creating one on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, authProvider, providerUserID, email, name string) (*domain.User, error)
}

// UserAuthSvc defines credential operations used by the auth handlers
type UserAuthSvc interface {
	// VerifyPassword checks email + password and returns the user on success.
	// Failures are uniformly Unauthorized.
	VerifyPassword(ctx context.Context, email, password string) (*domain.User, error)

	// StoreRefreshTokenHash persists the hash/expiry of an issued refresh token.
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string, expiry time.Time) error

	// ClearRefreshToken drops the stored refresh token, logging the user out.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
