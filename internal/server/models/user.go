package models

import "time"

// User is a registered principal. Email is unique across all users and is
// the identity carried in issued access tokens. PasswordHash is the bcrypt
// digest of the registration password; the raw password is never stored.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
