package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/platform/config"
	"github.com/fambudget/family_budget_app/internal/utils"
)

const refreshTokenByteLength = 32

type tokenService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewTokenService creates the token issuing/validation service.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, apperrors.NewInternalServerError("failed to issue access token")
	}
	return token, expiresAt, nil
}

func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, err := utils.GenerateSecureRandomString(refreshTokenByteLength)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate refresh token", slog.String("user_id", user.UserID))
		return "", time.Time{}, apperrors.NewInternalServerError("failed to issue refresh token")
	}
	return token, time.Now().Add(s.cfg.RefreshTokenExpiryDuration), nil
}

// ValidateRefreshToken checks the presented token against the stored hash and
// expiry. All failure modes read as Unauthorized.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid refresh token")
		}
		s.LogError(ctx, err, "Failed to fetch user for refresh token validation", slog.String("user_id", userID))
		return nil, err
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.NewUnauthorizedError("refresh token expired")
	}
	if !utils.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}
	return user, nil
}
