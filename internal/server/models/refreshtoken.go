package models

import "time"

// RefreshToken is a stored opaque credential. Token is the random string
// handed to the client; it carries no structure and only has meaning as a
// lookup key. A token is usable while Revoked is false and ExpiresAt is in
// the future. Rows are never deleted, revocation is a one-way flag.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
