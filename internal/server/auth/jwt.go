// Package auth implements the token issuing side of the service: signed
// HS256 access tokens and opaque random refresh tokens, plus password
// hashing. The signing secret is injected at construction time so tests can
// use deterministic keys.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dberzins/authsvc/internal/common"
)

// Claims are the statements embedded in an access token. A verified Claims
// value is the only thing downstream code needs to identify the caller; no
// store lookup is involved.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// TokenIssuer mints and verifies access tokens and generates refresh token
// strings. It holds no durable state besides the signing secret.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenIssuer(secret []byte, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, accessTTL: accessTTL}
}

// IssueAccessToken signs a token asserting the given identity. Expiry is
// absolute wall-clock time; the verifier checks it, not the issuer.
func (i *TokenIssuer) IssueAccessToken(userID, email, role string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyAccessToken parses and validates a token string and returns its
// claims. Malformed, tampered, and expired tokens all fail with the same
// common.ErrInvalidToken so callers get no oracle about which it was.
func (i *TokenIssuer) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// IssueRefreshToken generates an opaque 256-bit random string. It has no
// embedded structure; its only meaning is as a store lookup key.
func (i *TokenIssuer) IssueRefreshToken() (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	return token, nil
}
