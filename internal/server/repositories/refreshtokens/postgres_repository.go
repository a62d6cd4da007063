// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh tokens used in the authentication flow.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dberzins/authsvc/internal/common"
	"github.com/dberzins/authsvc/internal/dbx"
	"github.com/dberzins/authsvc/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new refresh token for userID with an expiry time of
// now+validity. The token column is unique; a collision (negligible for a
// 256-bit random token) surfaces as an error rather than an overwrite.
func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// Find returns the refresh token row for the given token string together
// with its owning user, resolved in one joined read.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, *models.User, error) {
	query := `
		SELECT t.id, t.user_id, t.expires_at, t.revoked, t.created_at,
		       u.email, u.password_hash, u.role
		FROM refresh_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1
	`
	refreshToken := &models.RefreshToken{Token: token}
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&refreshToken.ID, &refreshToken.UserID, &refreshToken.ExpiresAt,
		&refreshToken.Revoked, &refreshToken.CreatedAt,
		&user.Email, &user.PasswordHash, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	user.ID = refreshToken.UserID
	return refreshToken, user, nil
}

// Revoke flags a refresh token as revoked. The predicate matches revoked
// rows too, so revoking twice is a no-op success; only a missing token
// reports common.ErrorNotFound.
func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE token = $1
	`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
