// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dberzins/authsvc/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens. Tokens are never physically deleted; revocation is a
// one-way flag on the row.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks up a refresh token by its opaque token string and resolves
	// the owning user in the same read. Implementations return
	// common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, *models.User, error)

	// Revoke sets the revoked flag on the token row. Revoking an
	// already-revoked token succeeds; a missing token yields
	// common.ErrorNotFound.
	Revoke(ctx context.Context, token string) error
}
