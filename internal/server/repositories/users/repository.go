// Package users declares the server-side repository contract for principal
// records.
package users

import (
	"context"

	"github.com/dberzins/authsvc/internal/server/models"
)

type Repository interface {
	// Create persists a new user. The email uniqueness constraint lives in
	// the store; a duplicate insert fails with common.ErrDuplicateIdentity.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail returns the user with the given email, or
	// common.ErrorNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
