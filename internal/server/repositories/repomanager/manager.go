// Package repomanager groups the repository constructors behind one
// interface so services stay polymorphic over the storage backend.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dberzins/authsvc/internal/dbx"
	"github.com/dberzins/authsvc/internal/server/repositories/refreshtokens"
	"github.com/dberzins/authsvc/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
