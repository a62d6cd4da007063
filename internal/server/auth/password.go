package auth

import "golang.org/x/crypto/bcrypt"

// Hasher is the pluggable one-way password hashing capability.
type Hasher interface {
	Hash(password string) (string, error)

	// Verify reports whether password matches storedHash. It never returns
	// an error: a malformed stored hash simply verifies as false.
	Verify(password, storedHash string) bool
}

// BcryptHasher implements Hasher with bcrypt. Each Hash call salts
// internally, so hashing the same password twice yields different digests.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
