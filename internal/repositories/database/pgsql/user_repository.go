package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

var FULL_USER_SELECT_QUERY = `
SELECT
	u.user_id, u.email, u.name, u.password_hash, u.currency, u.phone, u.date_of_birth,
	u.auth_provider, u.provider_user_id, u.refresh_token_hash, u.refresh_token_expiry_time,
	u.created_at, u.created_by, u.last_updated_at, u.last_updated_by, u.deleted_at
FROM users u
`

func (r *PgxUserRepository) getUser(ctx context.Context, filterQuery string, args ...any) (*domain.User, error) {
	query := FULL_USER_SELECT_QUERY + filterQuery
	var u domain.User
	var passwordHash, phone, authProvider, providerUserID, refreshTokenHash *string
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&u.UserID,
		&u.Email,
		&u.Name,
		&passwordHash,
		&u.Currency,
		&phone,
		&u.DateOfBirth,
		&authProvider,
		&providerUserID,
		&refreshTokenHash,
		&u.RefreshTokenExpiryTime,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
		&u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query user", err)
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if phone != nil {
		u.Phone = *phone
	}
	if authProvider != nil {
		u.AuthProvider = *authProvider
	}
	if providerUserID != nil {
		u.ProviderUserID = *providerUserID
	}
	if refreshTokenHash != nil {
		u.RefreshTokenHash = *refreshTokenHash
	}
	return &u, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.user_id = $1 AND u.deleted_at IS NULL`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.email = $1 AND u.deleted_at IS NULL`, email)
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.auth_provider = $1 AND u.provider_user_id = $2 AND u.deleted_at IS NULL`, authProvider, providerUserID)
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	query := FULL_USER_SELECT_QUERY + `WHERE u.deleted_at IS NULL ORDER BY u.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var passwordHash, phone, authProvider, providerUserID, refreshTokenHash *string
		err := rows.Scan(
			&u.UserID,
			&u.Email,
			&u.Name,
			&passwordHash,
			&u.Currency,
			&phone,
			&u.DateOfBirth,
			&authProvider,
			&providerUserID,
			&refreshTokenHash,
			&u.RefreshTokenExpiryTime,
			&u.CreatedAt,
			&u.CreatedBy,
			&u.LastUpdatedAt,
			&u.LastUpdatedBy,
			&u.DeletedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		if passwordHash != nil {
			u.PasswordHash = *passwordHash
		}
		if phone != nil {
			u.Phone = *phone
		}
		if authProvider != nil {
			u.AuthProvider = *authProvider
		}
		if providerUserID != nil {
			u.ProviderUserID = *providerUserID
		}
		if refreshTokenHash != nil {
			u.RefreshTokenHash = *refreshTokenHash
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (
			user_id, email, name, password_hash, currency, phone, date_of_birth,
			auth_provider, provider_user_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Currency,
		user.Phone,
		user.DateOfBirth,
		user.AuthProvider,
		user.ProviderUserID,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return apperrors.NewConflictError("email " + user.Email + " is already registered")
		}
		if isUniqueViolation(err, "") {
			return apperrors.NewConflictError("user " + user.UserID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save user "+user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $1, currency = $2, phone = $3, date_of_birth = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE user_id = $7 AND deleted_at IS NULL;
	`
	result, err := r.Pool.Exec(ctx, query,
		user.Name,
		user.Currency,
		user.Phone,
		user.DateOfBirth,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
		user.UserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update user "+user.UserID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + user.UserID + " not found")
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3 AND deleted_at IS NULL;
	`
	result, err := r.Pool.Exec(ctx, query, refreshTokenHash, expiry, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update refresh token for user "+userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found")
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	if _, err := r.Pool.Exec(ctx, query, userID); err != nil {
		return apperrors.NewAppError(500, "failed to clear refresh token for user "+userID, err)
	}
	return nil
}
