// Package services contains server-side business logic. This file implements
// SessionService, which orchestrates registration, login, access-token
// refresh, and refresh-token revocation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dberzins/authsvc/internal/common"
	"github.com/dberzins/authsvc/internal/server/auth"
	"github.com/dberzins/authsvc/internal/server/config"
	"github.com/dberzins/authsvc/internal/server/models"
	"github.com/dberzins/authsvc/internal/server/repositories/repomanager"
)

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "user"

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService provides the credential lifecycle operations:
//   - Register: create users
//   - Login: verify credentials and mint a token pair
//   - Refresh: mint a new access token against a stored refresh token
//   - Revoke: permanently invalidate a refresh token
//   - WhoAmI: project the identity out of verified claims
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	issuer                       *auth.TokenIssuer
	hasher                       auth.Hasher
	refreshTokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories, the
// token issuer, the password hasher, and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.TokenIssuer, hasher auth.Hasher, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		issuer:                       issuer,
		hasher:                       hasher,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register hashes the password and persists a new user. A taken email fails
// with common.ErrDuplicateIdentity; the store's unique constraint decides,
// so two concurrent registrations of the same email cannot both succeed.
func (s *SessionService) Register(ctx context.Context, email string, password string) (*models.User, error) {

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         DefaultRole,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, issues one access token
// and one new refresh token persisted against the user. An unknown email
// and a wrong password both fail with common.ErrInvalidCredentials so the
// caller cannot probe which identities exist.
func (s *SessionService) Login(ctx context.Context, email string, password string) (*TokenPair, error) {

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

// Refresh validates a refresh token and mints a new access token for its
// owner. The refresh token is NOT rotated: the same token string is handed
// back and stays valid until its expiry or an explicit revoke. Missing,
// revoked, and expired tokens all fail with common.ErrInvalidOrExpiredToken.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	repo := s.repomanager.RefreshTokens(s.db)

	token, user, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Revoked {
		return nil, common.ErrInvalidOrExpiredToken
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrInvalidOrExpiredToken
	}

	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: token.Token}, nil
}

// Revoke marks a refresh token revoked. Revocation is one-way and
// idempotent: revoking an already-revoked token succeeds silently, only a
// token that was never issued fails with common.ErrTokenNotFound.
func (s *SessionService) Revoke(ctx context.Context, refreshToken string) error {

	repo := s.repomanager.RefreshTokens(s.db)

	if err := repo.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrTokenNotFound
		}
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	return nil
}

// WhoAmI projects the identity out of already-verified access-token claims.
// No store access: the claims value is the proof.
func (s *SessionService) WhoAmI(claims *auth.Claims) string {
	return claims.Email
}

func (s *SessionService) generateTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshTokenRepo := s.repomanager.RefreshTokens(s.db)
	err = refreshTokenRepo.Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
